package security

import (
	"bufio"
	"context"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/reposcope/reposcope/pkg/common/pools"
	"github.com/reposcope/reposcope/pkg/common/runner"
	"github.com/reposcope/reposcope/pkg/errkit"
	"github.com/reposcope/reposcope/pkg/logger"
	"github.com/reposcope/reposcope/pkg/model"
)

// Config mirrors spec 4.H's Secret Scanner configuration block.
type Config struct {
	MaxFileSize                 int64
	WorkerThreads               int // 0 => runtime.NumCPU()
	EnableEntropyDetection      bool
	MinConfidence               float64
	SkipGitignored              bool
	DowngradeGitignoredSeverity bool
	MaxCriticalFindings         int // 0 => unlimited
	TimeoutSeconds              int // 0 => no timeout
	Runner                      runner.CommandRunner
}

// DefaultConfig mirrors spec.md's Balanced-mode defaults for the scanner.
func DefaultConfig() Config {
	return Config{
		MaxFileSize:            10 * 1024 * 1024,
		WorkerThreads:          0,
		EnableEntropyDetection: true,
		MinConfidence:          0.4,
		SkipGitignored:         false,
		TimeoutSeconds:         0,
		Runner:                 &runner.DefaultCommandRunner{},
	}
}

var scannableKinds = map[model.FileKind]bool{
	model.KindSource:   true,
	model.KindConfig:   true,
	model.KindDocker:   true,
	model.KindManifest: true,
	model.KindDoc:      false,
}

func isScannable(f model.File) bool {
	if f.IsEnvFile || f.IsSecretFile {
		return true
	}
	return scannableKinds[f.Kind]
}

// candidateFinding is one raw pattern/entropy match before dedup and
// git-aware severity adjustment.
type candidateFinding struct {
	pattern     Pattern
	filePath    string
	line        int
	column      int
	rawLine     string
	secretValue string
	confidence  float64
}

// ScanDirectory runs spec 4.H's pipeline over an already-walked file set:
// parallel per-file pattern and entropy matching, confidence scoring,
// deduplication, git-aware severity adjustment and scoring into a
// model.SecurityReport. Grounded on secret_discovery.go's
// semaphore-bounded goroutine-per-file ScanDirectory.
func ScanDirectory(ctx context.Context, root string, files []model.File, cfg Config) (*model.SecurityReport, []errkit.Error) {
	start := time.Now()

	if cfg.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	workers := cfg.WorkerThreads
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	gc := newGitClassifier(root, cfg.Runner)
	entropy := newEntropyDetector()

	var (
		mu         sync.Mutex
		candidates []candidateFinding
		errs       []errkit.Error
		truncated  bool
	)

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for _, f := range files {
		if !isScannable(f) || f.Size > cfg.MaxFileSize {
			continue
		}
		select {
		case <-ctx.Done():
			mu.Lock()
			truncated = true
			mu.Unlock()
		default:
		}
		mu.Lock()
		stop := truncated
		mu.Unlock()
		if stop {
			break
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(file model.File) {
			defer wg.Done()
			defer func() { <-sem }()

			found, err := scanFile(ctx, file, cfg, entropy)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, *errkit.New(errkit.FileSystem, "security", "failed to scan file", err).WithPath(file.RelPath))
				return
			}
			candidates = append(candidates, found...)
		}(f)
	}
	wg.Wait()

	deduped := dedupe(candidates)

	findings := make([]model.SecurityFinding, 0, len(deduped))
	counts := map[model.SecuritySeverity]int{}
	byCategory := map[model.SecurityCategory]int{}

	for _, c := range deduped {
		if c.pattern.ID == "jwt" && !isStructurallyValidJWT(c.secretValue) {
			continue
		}

		status := gc.classify(ctx, c.filePath)
		severity := c.pattern.Severity
		remediation := append([]string{}, c.pattern.Remediation...)

		switch status {
		case gitStatusIgnored:
			if cfg.SkipGitignored {
				continue
			}
			if cfg.DowngradeGitignoredSeverity {
				severity = severity.Downgrade()
			}
		case gitStatusTracked:
			severity = severity.Raise()
			remediation = append(remediation, "rotate the secret; scrub history")
		}

		if cfg.MaxCriticalFindings > 0 && counts[model.SeverityCritical] >= cfg.MaxCriticalFindings && severity == model.SeverityCritical {
			truncated = true
			continue
		}

		finding := model.SecurityFinding{
			ID:          uuid.NewString(),
			Title:       c.pattern.Name,
			Description: c.pattern.Description,
			Severity:    severity,
			Category:    c.pattern.Category,
			FilePath:    c.filePath,
			Line:        c.line,
			Column:      c.column,
			Evidence:    redactLine(c.rawLine, c.secretValue),
			Remediation: remediation,
			References:  c.pattern.References,
			CWE:         c.pattern.CWE,
			GitStatus:   status,
			DedupKey:    dedupKey(c),
		}
		findings = append(findings, finding)
		counts[severity]++
		byCategory[finding.Category]++
	}

	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Severity.Rank() != findings[j].Severity.Rank() {
			return findings[i].Severity.Rank() < findings[j].Severity.Rank()
		}
		if findings[i].FilePath != findings[j].FilePath {
			return findings[i].FilePath < findings[j].FilePath
		}
		return findings[i].Line < findings[j].Line
	})

	score := riskScore(counts)
	report := &model.SecurityReport{
		Timestamp:        start,
		OverallScore:     score,
		RiskLevel:        riskLevel(score),
		TotalCount:       len(findings),
		CountsBySeverity: counts,
		CountsByCategory: byCategory,
		Findings:         findings,
		Truncated:        truncated,
	}

	logger.Debugf("security: scanned %d files, %d findings, score %d", len(files), len(findings), score)

	return report, errs
}

// scanFile reads one file and evaluates every line against the pattern
// table and, when enabled, the entropy detector.
func scanFile(ctx context.Context, file model.File, cfg Config, entropy *entropyDetector) ([]candidateFinding, error) {
	raw, err := os.ReadFile(file.AbsPath)
	if err != nil {
		return nil, err
	}

	buf := pools.BytesBufferPool.Get()
	defer pools.BytesBufferPool.Put(buf)
	buf.Write(raw)
	content := buf.String()

	if !maybeHasSecret(content) {
		return nil, nil
	}

	var out []candidateFinding
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(pools.BufferPool.Get(), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if ctx.Err() != nil {
			break
		}
		line := scanner.Text()
		if line == "" {
			continue
		}

		matchedAny := false
		for _, p := range allPatterns() {
			matches := p.Regex.FindAllStringSubmatch(line, -1)
			if len(matches) == 0 {
				continue
			}
			for _, m := range matches {
				value := m[0]
				if p.ExtractGroup > 0 && p.ExtractGroup < len(m) {
					value = m[p.ExtractGroup]
				}
				confidence := scoreConfidence(p, line, file.RelPath, value)
				if confidence < p.KeepThreshold || confidence < cfg.MinConfidence {
					continue
				}
				matchedAny = true
				out = append(out, candidateFinding{
					pattern:     p,
					filePath:    file.RelPath,
					line:        lineNo,
					column:      strings.Index(line, value),
					rawLine:     line,
					secretValue: value,
					confidence:  confidence,
				})
			}
		}

		if cfg.EnableEntropyDetection && !matchedAny {
			for _, token := range entropy.highEntropyTokens(line) {
				confidence := scoreConfidence(genericSecretFallback, line, file.RelPath, token)
				if confidence < genericSecretFallback.KeepThreshold || confidence < cfg.MinConfidence {
					continue
				}
				out = append(out, candidateFinding{
					pattern:     genericSecretFallback,
					filePath:    file.RelPath,
					line:        lineNo,
					column:      strings.Index(line, token),
					rawLine:     line,
					secretValue: token,
					confidence:  confidence,
				})
			}
		}
	}
	return out, scanner.Err()
}

// genericSecretFallback is the pattern attributed to entropy-only finds,
// distinct from the "generic_secret" named-assignment pattern so dedup
// priority still favors any real name match over an entropy guess.
var genericSecretFallback = Pattern{
	ID: "entropy_generic_secret", Name: "High-Entropy Secret", Set: setSecret,
	Severity: SeverityMedium, Category: CategorySecretsExposure,
	Description: "High-entropy string that resembles a credential.",
	Remediation: []string{"Confirm whether this value is sensitive and move it out of source if so"},
	KeepThreshold: 0.6, Specificity: 90,
}

func redact(secret string) string {
	if len(secret) <= 8 {
		return "***"
	}
	sb := pools.StringBuilderPool.Get()
	defer pools.StringBuilderPool.Put(sb)
	sb.WriteString(secret[:3])
	sb.WriteString(strings.Repeat("*", minInt(len(secret)-6, 6)))
	sb.WriteString(secret[len(secret)-3:])
	return sb.String()
}

// redactLine returns rawLine with secretValue's first occurrence masked,
// so a finding's Evidence keeps the surrounding source line instead of
// just the bare masked token.
func redactLine(rawLine, secretValue string) string {
	if secretValue == "" {
		return rawLine
	}
	return strings.Replace(rawLine, secretValue, redact(secretValue), 1)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
