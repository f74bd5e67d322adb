package security

import "regexp"

// patternSet names which of the spec's three multi-pattern groups a
// Pattern belongs to, plus the fourth group matched one regex at a time.
type patternSet int

const (
	setSecret patternSet = iota
	setEnvVar
	setAPIKey
	setComplex
)

// Pattern is one compiled detector, grounded on secret_discovery.go's
// SecretPattern but extended with the fields spec 4.H's pattern engine
// requires: category, remediation, references, CWE id and the keyword
// lists confidence scoring consults.
type Pattern struct {
	ID                      string
	Name                    string
	Set                     patternSet
	Severity                Severity
	Category                Category
	Description             string
	Remediation             []string
	References              []string
	CWE                     string
	Regex                   *regexp.Regexp
	ExtractGroup            int // capture group holding the secret value; 0 means whole match
	ConfidenceBoostKeywords []string
	FalsePositiveKeywords   []string
	KeepThreshold           float64
	// Specificity orders dedup priority: lower wins when two patterns
	// match the same value (e.g. AWS Access Key beats Generic Secret).
	Specificity int
}

// builtinPatterns is the compiled pattern table. There is no Aho-Corasick
// library anywhere in the retrieved pack (checked against every example
// repo's go.mod), so the three "multi-pattern sets" the spec describes
// are represented as ordinary compiled regexes grouped by Set rather than
// a shared automaton; see DESIGN.md for the stdlib-regexp justification.
var builtinPatterns = []Pattern{
	{
		ID: "aws_access_key", Name: "AWS Access Key", Set: setSecret,
		Severity: SeverityCritical, Category: CategorySecretsExposure,
		Description: "AWS access key ID embedded in source.",
		Remediation: []string{"Revoke the key in IAM", "Move credentials to an environment variable or secrets manager"},
		References:  []string{"https://docs.aws.amazon.com/IAM/latest/UserGuide/id_credentials_access-keys.html"},
		CWE:         "CWE-798",
		Regex:       regexp.MustCompile(`\b(AKIA[0-9A-Z]{16})\b`),
		KeepThreshold: 0.6, Specificity: 5,
	},
	{
		ID: "aws_secret_key", Name: "AWS Secret Access Key", Set: setSecret,
		Severity: SeverityCritical, Category: CategorySecretsExposure,
		Description: "High-entropy string matching the shape of an AWS secret access key.",
		Remediation: []string{"Revoke the key in IAM", "Rotate and move to a secrets manager"},
		CWE:         "CWE-798",
		Regex:       regexp.MustCompile(`(?i)aws_secret_access_key[\s]*[:=][\s]*['"]?([A-Za-z0-9/+=]{40})['"]?`),
		ExtractGroup: 1,
		KeepThreshold: 0.7, Specificity: 10,
	},
	{
		ID: "github_token", Name: "GitHub Token", Set: setSecret,
		Severity: SeverityHigh, Category: CategorySecretsExposure,
		Description: "GitHub personal access or app token.",
		Remediation: []string{"Revoke the token in GitHub settings", "Rotate and store via a secrets manager"},
		CWE:         "CWE-798",
		Regex:       regexp.MustCompile(`\b(gh[pousr]_[A-Za-z0-9_]{30,40})\b`),
		KeepThreshold: 0.6, Specificity: 5,
	},
	{
		ID: "gitlab_token", Name: "GitLab Personal Access Token", Set: setSecret,
		Severity: SeverityHigh, Category: CategorySecretsExposure,
		Description: "GitLab personal access token.",
		Remediation: []string{"Revoke the token in GitLab settings"},
		CWE:         "CWE-798",
		Regex:       regexp.MustCompile(`\b(glpat-[A-Za-z0-9_\-]{20,})\b`),
		KeepThreshold: 0.6, Specificity: 5,
	},
	{
		ID: "slack_token", Name: "Slack Token", Set: setSecret,
		Severity: SeverityMedium, Category: CategorySecretsExposure,
		Description: "Slack bot/user/app token.",
		Remediation: []string{"Revoke the token in the Slack app management console"},
		Regex:       regexp.MustCompile(`\b(xox[baprs]-[0-9]{10,}-[0-9]{10,}-[a-zA-Z0-9]{24,})\b`),
		KeepThreshold: 0.6, Specificity: 5,
	},
	{
		ID: "stripe_key", Name: "Stripe API Key", Set: setAPIKey,
		Severity: SeverityCritical, Category: CategorySecretsExposure,
		Description: "Stripe live secret or restricted API key.",
		Remediation: []string{"Roll the key from the Stripe dashboard immediately"},
		CWE:         "CWE-798",
		Regex:       regexp.MustCompile(`\b((?:sk|rk)_live_[A-Za-z0-9]{16,})\b`),
		KeepThreshold: 0.6, Specificity: 5,
	},
	{
		ID: "openai_key", Name: "OpenAI API Key", Set: setAPIKey,
		Severity: SeverityHigh, Category: CategorySecretsExposure,
		Description: "OpenAI API key.",
		Remediation: []string{"Revoke the key in the OpenAI dashboard"},
		Regex:       regexp.MustCompile(`\b(sk-[A-Za-z0-9]{20,})\b`),
		KeepThreshold: 0.6, Specificity: 6,
	},
	{
		ID: "google_api_key", Name: "Google API Key", Set: setAPIKey,
		Severity: SeverityHigh, Category: CategorySecretsExposure,
		Description: "Google Cloud/Maps/Firebase API key.",
		Remediation: []string{"Restrict or regenerate the key in the Google Cloud console"},
		Regex:       regexp.MustCompile(`\b(AIza[0-9A-Za-z_\-]{35})\b`),
		KeepThreshold: 0.6, Specificity: 6,
	},
	{
		ID: "twilio_key", Name: "Twilio API Key", Set: setAPIKey,
		Severity: SeverityHigh, Category: CategorySecretsExposure,
		Description: "Twilio account SID or auth token pattern.",
		Remediation: []string{"Rotate the credential from the Twilio console"},
		Regex:       regexp.MustCompile(`\b(SK[0-9a-fA-F]{32})\b`),
		KeepThreshold: 0.6, Specificity: 6,
	},
	{
		ID: "sendgrid_key", Name: "SendGrid API Key", Set: setAPIKey,
		Severity: SeverityHigh, Category: CategorySecretsExposure,
		Description: "SendGrid API key.",
		Remediation: []string{"Revoke the key from the SendGrid dashboard"},
		Regex:       regexp.MustCompile(`\b(SG\.[A-Za-z0-9_\-]{22}\.[A-Za-z0-9_\-]{43})\b`),
		KeepThreshold: 0.6, Specificity: 5,
	},
	{
		ID: "npm_token", Name: "npm Access Token", Set: setAPIKey,
		Severity: SeverityHigh, Category: CategorySecretsExposure,
		Description: "npm registry access token.",
		Remediation: []string{"Revoke the token with npm token revoke"},
		Regex:       regexp.MustCompile(`\b(npm_[A-Za-z0-9]{36})\b`),
		KeepThreshold: 0.6, Specificity: 5,
	},
	{
		ID: "private_key_block", Name: "Private Key Block", Set: setComplex,
		Severity: SeverityCritical, Category: CategorySecretsExposure,
		Description: "PEM-encoded private key material.",
		Remediation: []string{"Remove the key from version control", "Rotate and scrub repository history"},
		CWE:         "CWE-321",
		Regex:       regexp.MustCompile(`-----BEGIN\s+(RSA|DSA|EC|OPENSSH|PGP)\s+PRIVATE KEY-----`),
		KeepThreshold: 0.8, Specificity: 1,
	},
	{
		ID: "jwt", Name: "JSON Web Token", Set: setComplex,
		Severity: SeverityMedium, Category: CategorySecretsExposure,
		Description: "Structurally valid JWT embedded in source or config.",
		Remediation: []string{"Treat as a bearer credential: revoke the signing key if it leaked from a server"},
		Regex:       regexp.MustCompile(`\b(eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,})\b`),
		KeepThreshold: 0.6, Specificity: 8,
	},
	{
		ID: "database_url", Name: "Database Connection String", Set: setComplex,
		Severity: SeverityHigh, Category: CategorySecretsExposure,
		Description: "Connection string with an embedded username/password.",
		Remediation: []string{"Move the credential to an environment variable or secrets manager"},
		Regex:       regexp.MustCompile(`(?i)\b((?:postgres|postgresql|mysql|mongodb|redis)://[^:\s]+:[^@\s]+@[^/\s]+/?\S*)\b`),
		KeepThreshold: 0.6, Specificity: 4,
	},
	{
		ID: "bearer_token", Name: "Bearer Token", Set: setComplex,
		Severity: SeverityMedium, Category: CategorySecretsExposure,
		Description: "Authorization header carrying a bearer token literal.",
		Remediation: []string{"Move the token out of source and inject it at runtime"},
		Regex:       regexp.MustCompile(`(?i)Authorization['"]?\s*[:=]\s*['"]?Bearer\s+([A-Za-z0-9_\-.=]{16,})`),
		ExtractGroup: 1,
		KeepThreshold: 0.6, Specificity: 20,
	},
	{
		ID: "generic_api_key", Name: "Generic API Key", Set: setAPIKey,
		Severity: SeverityHigh, Category: CategorySecretsExposure,
		Description: "Assignment to an identifier named like an API key.",
		Remediation: []string{"Move the value to an environment variable or secrets manager"},
		Regex:       regexp.MustCompile(`(?i)(api[_\-\s]?key|apikey|api[_\-\s]?token)\s*[:=]\s*['"]?([A-Za-z0-9_\-]{16,})['"]?`),
		ExtractGroup: 2,
		ConfidenceBoostKeywords: []string{"api", "key", "token"},
		KeepThreshold: 0.7, Specificity: 50,
	},
	{
		ID: "generic_secret", Name: "Generic Secret", Set: setSecret,
		Severity: SeverityMedium, Category: CategorySecretsExposure,
		Description: "Assignment to an identifier named like a secret or password.",
		Remediation: []string{"Move the value to an environment variable or secrets manager"},
		Regex:       regexp.MustCompile(`(?i)(secret|password|passwd|pwd|credential)\s*[:=]\s*['"]?([^\s'"]{8,})['"]?`),
		ExtractGroup: 2,
		FalsePositiveKeywords: []string{"example", "placeholder", "your_", "todo", "xxx", "test", "demo", "lorem", "change_me", "replace_me"},
		KeepThreshold: 0.7, Specificity: 80,
	},
	{
		ID: "env_var_exposure", Name: "Hardcoded Environment Value", Set: setEnvVar,
		Severity: SeverityLow, Category: CategorySecretsExposure,
		Description: "Environment-style KEY=value assignment carrying a high-entropy value.",
		Remediation: []string{"Confirm the value isn't sensitive before committing .env files"},
		Regex:       regexp.MustCompile(`(?i)\b([A-Z][A-Z0-9_]{3,}(?:_KEY|_SECRET|_TOKEN|_PASSWORD))\s*=\s*(\S+)`),
		ExtractGroup: 2,
		KeepThreshold: 0.65, Specificity: 60,
	},
}

func allPatterns() []Pattern { return builtinPatterns }
