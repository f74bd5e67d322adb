// Package model holds the data types shared across every analyzer
// component: the File record produced by the walker, the detections
// produced by the language/technology/context stages, and the aggregate
// ProjectAnalysis / MonorepoAnalysis / SecurityReport the orchestrator
// assembles from them.
package model

import (
	"strconv"
	"time"
)

// ScanMode controls file-walk aggressiveness and pattern thresholds.
type ScanMode string

const (
	ScanLightning ScanMode = "lightning"
	ScanFast      ScanMode = "fast"
	ScanBalanced  ScanMode = "balanced"
	ScanThorough  ScanMode = "thorough"
	ScanParanoid  ScanMode = "paranoid"
)

// FileKind is the coarse classification the walker assigns to each path.
type FileKind string

const (
	KindSource   FileKind = "source"
	KindManifest FileKind = "manifest"
	KindDocker   FileKind = "docker"
	KindConfig   FileKind = "config"
	KindDoc      FileKind = "doc"
	KindAsset    FileKind = "asset"
	KindLock     FileKind = "lock"
	KindBinary   FileKind = "binary"
	KindVendor   FileKind = "vendor"
)

// File is one record from the File Walker & Classifier (4.A).
type File struct {
	AbsPath         string
	RelPath         string
	Size            int64
	ModTime         time.Time
	Ext             string
	Kind            FileKind
	Gitignored      bool
	IsEnvFile       bool
	IsConfigFile    bool
	IsSecretFile    bool
	IsSourceFile    bool
	HasSecretKeyword bool
	PriorityScore   int
}

// ComputePriority implements spec 4.A's deterministic priority score.
func (f *File) ComputePriority() int {
	score := 0
	if f.IsEnvFile {
		score += 1000
	}
	if f.IsSecretFile {
		score += 900
	}
	if f.IsConfigFile {
		score += 500
	}
	if f.HasSecretKeyword {
		score += 300
	}
	if !f.Gitignored {
		score += 200
	}
	if f.IsSourceFile {
		score += 100
	}
	if f.Size > 1<<20 {
		score -= 100
	}
	f.PriorityScore = score
	return score
}

// LanguageName is a closed set of detectable languages, plus Unknown.
type LanguageName string

const (
	LangRust       LanguageName = "Rust"
	LangJavaScript LanguageName = "JavaScript"
	LangTypeScript LanguageName = "TypeScript"
	LangPython     LanguageName = "Python"
	LangGo         LanguageName = "Go"
	LangJava       LanguageName = "Java"
	LangKotlin     LanguageName = "Kotlin"
	LangUnknown    LanguageName = "Unknown"
)

// DependencyKind distinguishes production, development, and optional deps.
type DependencyKind string

const (
	DepProd     DependencyKind = "prod"
	DepDev      DependencyKind = "dev"
	DepOptional DependencyKind = "optional"
)

// Dependency is a single manifest-parser output record (4.B).
type Dependency struct {
	Name      string
	Version   string
	Kind      DependencyKind
	Direct    bool // false when sourced from a lockfile's transitive closure or a go.mod "// indirect" entry
	Ecosystem string
}

// ManifestRecord is the normalized output of one parsed manifest file.
type ManifestRecord struct {
	Path         string
	Language     LanguageName
	PackageManager string
	Version      string // language/edition version hint, e.g. "1.56+"
	Edition      string
	Dependencies []Dependency
}

// DetectedLanguage is one ranked language detection (4.C).
type DetectedLanguage struct {
	Name           LanguageName
	Version        string
	Confidence     float64
	SourceFiles    []string
	MainDeps       []string
	DevDeps        []string
	PackageManager string
}

// LibraryType refines TechnologyCategory's Library variant.
type LibraryType string

const (
	LibUI             LibraryType = "UI"
	LibStateManagement LibraryType = "StateManagement"
	LibDataFetching   LibraryType = "DataFetching"
	LibRouting        LibraryType = "Routing"
	LibStyling        LibraryType = "Styling"
	LibHTTPClient     LibraryType = "HttpClient"
	LibAuthentication LibraryType = "Authentication"
	LibUtility        LibraryType = "Utility"
	LibOther          LibraryType = "Other"
)

// CategoryKind is the tagged-variant discriminant for TechnologyCategory.
type CategoryKind string

const (
	CatMetaFramework     CategoryKind = "MetaFramework"
	CatBackendFramework  CategoryKind = "BackendFramework"
	CatFrontendFramework CategoryKind = "FrontendFramework"
	CatLibrary           CategoryKind = "Library"
	CatBuildTool         CategoryKind = "BuildTool"
	CatPackageManager    CategoryKind = "PackageManager"
	CatDatabase          CategoryKind = "Database"
	CatRuntime           CategoryKind = "Runtime"
	CatTesting           CategoryKind = "Testing"
	CatOrchestration     CategoryKind = "Orchestration"
)

// TechnologyCategory is the tagged variant described in spec section 3.
type TechnologyCategory struct {
	Kind        CategoryKind
	LibraryType LibraryType // only meaningful when Kind == CatLibrary
	OtherTag    string      // only meaningful when LibraryType == LibOther
}

// IsPrimaryIndicatorCategory reports whether a category is allowed to drive
// the project's architecture (is_primary=true).
func (c TechnologyCategory) IsPrimaryIndicatorCategory() bool {
	switch c.Kind {
	case CatMetaFramework, CatBackendFramework, CatFrontendFramework:
		return true
	default:
		return false
	}
}

// String renders the category the way it serializes in JSON output.
func (c TechnologyCategory) String() string {
	if c.Kind == CatLibrary {
		if c.LibraryType == LibOther && c.OtherTag != "" {
			return "Library(Other(" + c.OtherTag + "))"
		}
		return "Library(" + string(c.LibraryType) + ")"
	}
	return string(c.Kind)
}

// DetectedTechnology is one classified framework/library/runtime (4.D).
type DetectedTechnology struct {
	Name       string
	Category   TechnologyCategory
	Confidence float64
	Version    string
	// VersionConstraint is Version normalized into a semver constraint
	// (e.g. npm's "^1.2.3", Cargo's ">=1, <2") via the matched dependency's
	// raw manifest range, empty when that range doesn't parse as a
	// constraint or no dependency backs the match.
	VersionConstraint string
	Requires          []string
	ConflictsWith     []string
	IsPrimary         bool
}

// Protocol enumerates the port protocols the context extractor recognizes.
type Protocol string

const (
	ProtoHTTP  Protocol = "Http"
	ProtoHTTPS Protocol = "Https"
	ProtoTCP   Protocol = "Tcp"
	ProtoUDP   Protocol = "Udp"
	ProtoGRPC  Protocol = "Grpc"
)

// ServiceType classifies a Compose service by its apparent role, used to
// generate descriptive port/env-var labels (4.E's Compose service typing).
type ServiceType string

const (
	ServicePostgreSQL    ServiceType = "PostgreSQL"
	ServiceMySQL         ServiceType = "MySQL"
	ServiceMongoDB       ServiceType = "MongoDB"
	ServiceRedis         ServiceType = "Redis"
	ServiceRabbitMQ      ServiceType = "RabbitMQ"
	ServiceKafka         ServiceType = "Kafka"
	ServiceElasticsearch ServiceType = "Elasticsearch"
	ServiceNginx         ServiceType = "Nginx"
	ServiceApplication   ServiceType = "Application"
	ServiceUnknown       ServiceType = "Unknown"
)

// Port is a detected listening port (4.C's Data Model section).
type Port struct {
	Number      uint16
	Protocol    Protocol
	Description string
}

// Key returns the (number, protocol) dedup key for a port set.
func (p Port) Key() string {
	return strconv.Itoa(int(p.Number)) + "/" + string(p.Protocol)
}

// EnvVar is a detected environment variable.
type EnvVar struct {
	Name         string
	DefaultValue *string
	Required     bool
	Description  string
}

// EntryPoint is a detected program entry point.
type EntryPoint struct {
	File     string
	Function string
	Command  string
}

// BuildScript is a detected build/run script.
type BuildScript struct {
	Name        string
	Command     string
	Description string
	IsDefault   bool
}

// ProjectType classifies what kind of software a project partition is.
type ProjectType string

const (
	ProjectWebApplication ProjectType = "WebApplication"
	ProjectAPIService     ProjectType = "ApiService"
	ProjectMicroservice   ProjectType = "Microservice"
	ProjectCLITool        ProjectType = "CliTool"
	ProjectLibrary        ProjectType = "Library"
	ProjectStaticSite     ProjectType = "StaticSite"
	ProjectDesktop        ProjectType = "Desktop"
	ProjectMobile         ProjectType = "Mobile"
	ProjectUnknown        ProjectType = "Unknown"
)

// AnalysisMetadata carries per-project run statistics.
type AnalysisMetadata struct {
	DurationMS      int64
	FilesAnalyzed   int
	ConfidenceScore float64 // 0..100
	AnalyzerVersion string
	Truncated       bool
	Errors          []ComponentError
}

// ComponentError records a non-fatal component-level failure, per spec
// section 7's recovery policy.
type ComponentError struct {
	Kind      string
	Component string
	Path      string
	Message   string
}

// ProjectAnalysis is the per-project-partition result (Data Model section).
type ProjectAnalysis struct {
	RootPath     string
	Languages    []DetectedLanguage
	Technologies []DetectedTechnology
	EntryPoints  []EntryPoint
	Ports        []Port
	EnvVars      []EnvVar
	BuildScripts []BuildScript
	Dependencies map[string]string
	ProjectType  ProjectType
	Docker       *DockerAnalysis
	Metadata     AnalysisMetadata
}

// PrimaryTechnology returns the project's is_primary=true technology, if any.
func (p *ProjectAnalysis) PrimaryTechnology() *DetectedTechnology {
	for i := range p.Technologies {
		if p.Technologies[i].IsPrimary {
			return &p.Technologies[i]
		}
	}
	return nil
}

// ProjectCategory classifies a sub-project within a monorepo (4.G).
type ProjectCategory string

const (
	CategoryFrontend      ProjectCategory = "Frontend"
	CategoryBackend       ProjectCategory = "Backend"
	CategoryAPI           ProjectCategory = "Api"
	CategoryService       ProjectCategory = "Service"
	CategoryLibrary       ProjectCategory = "Library"
	CategoryTool          ProjectCategory = "Tool"
	CategoryDocumentation ProjectCategory = "Documentation"
	CategoryInfrastructure ProjectCategory = "Infrastructure"
	CategoryUnknown       ProjectCategory = "Unknown"
)

// ProjectInfo wraps one sub-project's analysis with monorepo-level metadata.
type ProjectInfo struct {
	Name     string
	Path     string
	Category ProjectCategory
	Analysis ProjectAnalysis
}

// ArchitecturePattern is the monorepo-wide architecture election (4.G).
type ArchitecturePattern string

const (
	ArchMonolithic   ArchitecturePattern = "Monolithic"
	ArchFullstack    ArchitecturePattern = "Fullstack"
	ArchMicroservices ArchitecturePattern = "Microservices"
	ArchAPIFirst     ArchitecturePattern = "ApiFirst"
	ArchEventDriven  ArchitecturePattern = "EventDriven"
	ArchMixed        ArchitecturePattern = "Mixed"
)

// TechnologySummary rolls up cross-project technology facts.
type TechnologySummary struct {
	Languages           []string
	Frameworks          []string
	Databases           []string
	ArchitecturePattern ArchitecturePattern
}

// MonorepoMetadata is the top-level analysis run summary.
type MonorepoMetadata struct {
	AnalysisDurationMS int64
	FilesAnalyzed      int
	ConfidenceScore    float64
	AnalyzerVersion    string
	Truncated          bool
}

// MonorepoAnalysis is the orchestrator's final output artifact (4.I).
type MonorepoAnalysis struct {
	ProjectRoot       string
	IsMonorepo        bool
	Projects          []ProjectInfo
	TechnologySummary TechnologySummary
	Metadata          MonorepoMetadata
	Security          *SecurityReport
}

// --- Docker topology (4.F) ---

type ImageOrBuildKind string

const (
	ImageKindRef   ImageOrBuildKind = "Image"
	ImageKindBuild ImageOrBuildKind = "Build"
)

// ImageOrBuild is the tagged union of a Compose service's `image` vs `build`.
type ImageOrBuild struct {
	Kind       ImageOrBuildKind
	Image      string
	Context    string
	Dockerfile string
	BuildArgs  map[string]string
}

type PortMapping struct {
	HostPort      *int
	ContainerPort int
	Protocol      Protocol
	ExposedToHost bool
}

type MountType string

const (
	MountBind   MountType = "bind"
	MountVolume MountType = "volume"
	MountTmpfs  MountType = "tmpfs"
)

type VolumeMount struct {
	Source    string
	Target    string
	MountType MountType
	ReadOnly  bool
}

type HealthCheck struct {
	Test     []string
	Interval string
	Timeout  string
	Retries  int
}

type RestartPolicy string

type ResourceLimits struct {
	CPUs   string
	Memory string
}

// DockerService is one compose-service-shaped node in the service graph.
type DockerService struct {
	Name           string
	SourceFile     string
	ImageOrBuild   ImageOrBuild
	Ports          []PortMapping
	Environment    map[string]string
	DependsOn      []string
	Networks       []string
	Volumes        []VolumeMount
	HealthCheck    *HealthCheck
	RestartPolicy  RestartPolicy
	ResourceLimits *ResourceLimits
}

type DockerfileInfo struct {
	Path            string
	Environment     string
	InstructionCount int
	MultiStage      bool
	ExposedPorts    []Port
	BaseImages      []string
}

type ComposeFileInfo struct {
	Path        string
	Environment string
	Version     string
	Services    []string
	Networks    []string
	Volumes     []string
}

type OrchestrationPattern string

const (
	OrchSingleContainer OrchestrationPattern = "SingleContainer"
	OrchDockerCompose   OrchestrationPattern = "DockerCompose"
	OrchMicroservices   OrchestrationPattern = "Microservices"
	OrchEventDriven     OrchestrationPattern = "EventDriven"
	OrchServiceMesh     OrchestrationPattern = "ServiceMesh"
	OrchMixed           OrchestrationPattern = "Mixed"
)

type NetworkingConfig struct {
	Networks          map[string][]string // network name -> connected service names
	InternalDNS       bool
	ServiceMesh       bool
	ExternalDiscovery bool
	LoadBalancers     map[string][]string // LB service name -> backend service names
}

type EnvironmentGroup struct {
	Name            string
	Dockerfiles     []string
	ComposeFiles    []string
	ConfigOverrides map[string]string
}

// DockerAnalysis is the 4.F output attached to a ProjectAnalysis.
type DockerAnalysis struct {
	Dockerfiles  []DockerfileInfo
	ComposeFiles []ComposeFileInfo
	Services     []DockerService
	Networking   NetworkingConfig
	Orchestration OrchestrationPattern
	Environments []EnvironmentGroup
}

// --- Security (4.H) ---

type SecuritySeverity string

const (
	SeverityCritical SecuritySeverity = "Critical"
	SeverityHigh     SecuritySeverity = "High"
	SeverityMedium   SecuritySeverity = "Medium"
	SeverityLow      SecuritySeverity = "Low"
	SeverityInfo     SecuritySeverity = "Info"
)

// Rank orders severities so Critical < High < ... for sorting ("most
// critical first").
func (s SecuritySeverity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	default:
		return 4
	}
}

// Raise returns the next more severe level, clamped at Critical.
func (s SecuritySeverity) Raise() SecuritySeverity {
	switch s {
	case SeverityInfo:
		return SeverityLow
	case SeverityLow:
		return SeverityMedium
	case SeverityMedium:
		return SeverityHigh
	default:
		return SeverityCritical
	}
}

// Downgrade returns the next less severe level, clamped at Info.
func (s SecuritySeverity) Downgrade() SecuritySeverity {
	switch s {
	case SeverityCritical:
		return SeverityHigh
	case SeverityHigh:
		return SeverityMedium
	case SeverityMedium:
		return SeverityLow
	default:
		return SeverityInfo
	}
}

type SecurityCategory string

const (
	CategorySecretsExposure        SecurityCategory = "SecretsExposure"
	CategoryInsecureConfiguration  SecurityCategory = "InsecureConfiguration"
	CategoryCodeSecurityPattern    SecurityCategory = "CodeSecurityPattern"
	CategoryInfrastructureSecurity SecurityCategory = "InfrastructureSecurity"
	CategoryAuthenticationSecurity SecurityCategory = "AuthenticationSecurity"
	CategoryDataProtection         SecurityCategory = "DataProtection"
	CategoryNetworkSecurity        SecurityCategory = "NetworkSecurity"
	CategoryCompliance             SecurityCategory = "Compliance"
)

// SecurityFinding is one reported security observation (Data Model section).
type SecurityFinding struct {
	ID             string
	Title          string
	Description    string
	Severity       SecuritySeverity
	Category       SecurityCategory
	FilePath       string
	Line           int
	Column         int
	Evidence       string
	Remediation    []string
	References     []string
	CWE            string
	Compliance     []string
	GitStatus      string // tracked | ignored | untracked
	DedupKey       string
}

type RiskLevel string

const (
	RiskCritical RiskLevel = "Critical"
	RiskHigh     RiskLevel = "High"
	RiskMedium   RiskLevel = "Medium"
	RiskLow      RiskLevel = "Low"
	RiskMinimal  RiskLevel = "Minimal"
)

// SecurityReport is the Secret Scanner's (4.H) final output.
type SecurityReport struct {
	Timestamp         time.Time
	OverallScore      int
	RiskLevel         RiskLevel
	TotalCount        int
	CountsBySeverity  map[SecuritySeverity]int
	CountsByCategory  map[SecurityCategory]int
	Findings          []SecurityFinding
	Recommendations   []string
	ComplianceStatus  map[string]bool
	Truncated         bool
}
