// Package buildspec generates the CodeBuild specifications for the build and
// deploy stages. The spec is a typed phase model rendered to YAML, never
// ad-hoc string concatenation; everything user-supplied that lands in a shell
// command goes through sanitization first.
package buildspec

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Artifact file names passed from the build stage to the deploy stage.
const (
	URIFile    = "imageURI.txt"
	TagFile    = "imageTag.txt"
	DigestFile = "imageDigest.txt"
)

// Spec is a CodeBuild buildspec document.
type Spec struct {
	Version   string     `yaml:"version"`
	Phases    Phases     `yaml:"phases"`
	Artifacts *Artifacts `yaml:"artifacts,omitempty"`
}

// Phases holds the three command phases.
type Phases struct {
	PreBuild  *Phase `yaml:"pre_build,omitempty"`
	Build     *Phase `yaml:"build,omitempty"`
	PostBuild *Phase `yaml:"post_build,omitempty"`
}

// Phase is an ordered command list.
type Phase struct {
	Commands []string `yaml:"commands"`
}

// Artifacts lists the files CodeBuild hands to the next stage.
type Artifacts struct {
	Files []string `yaml:"files"`
}

// Render serializes the spec to YAML.
func (s Spec) Render() (string, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("rendering buildspec: %w", err)
	}
	return string(data), nil
}

// BuildInput parameterizes the build-stage spec.
type BuildInput struct {
	// RepositoryName is the ECR repository name (used for digest lookup).
	RepositoryName string
	// SourceDir is the build context directory, relative to the repo root.
	SourceDir string
	// Dockerfile is the Dockerfile path relative to SourceDir.
	Dockerfile string
	// Args are docker build arguments.
	Args map[string]string
	// Buildpack synthesizes a Dockerfile from source before the image build.
	Buildpack bool
}

// Build produces the build-stage spec: authenticate to the registry, build a
// uniquely tagged image, push it, then resolve and record the content digest.
// The tag is a UTC build timestamp plus the CodeBuild build number, so two
// executions never collide even within the same second.
//
// The REPOSITORY_URI and AWS_DEFAULT_REGION variables are injected by the
// CodeBuild project environment.
func Build(in BuildInput) (Spec, error) {
	repo, err := SanitizeName(in.RepositoryName)
	if err != nil {
		return Spec{}, err
	}
	src, err := SanitizePath(in.SourceDir)
	if err != nil {
		return Spec{}, fmt.Errorf("sourceDir: %w", err)
	}
	dockerfile, err := SanitizePath(in.Dockerfile)
	if err != nil {
		return Spec{}, fmt.Errorf("dockerfile: %w", err)
	}
	args, err := buildArgs(in.Args)
	if err != nil {
		return Spec{}, err
	}

	pre := []string{
		`aws ecr get-login-password --region "$AWS_DEFAULT_REGION" | docker login --username AWS --password-stdin "${REPOSITORY_URI%%/*}"`,
		`IMAGE_TAG="$(date -u +%Y%m%d%H%M%S)-${CODEBUILD_BUILD_NUMBER:-0}"`,
	}

	dockerfilePath := src + "/" + dockerfile
	if in.Buildpack {
		// Synthesize a Dockerfile from source instead of expecting a
		// checked-in one.
		pre = append(pre, fmt.Sprintf(`nixpacks build %s --name %s --out %s`, quote(src), quote(repo), quote(src)))
		dockerfilePath = src + "/.nixpacks/Dockerfile"
	}

	build := []string{
		fmt.Sprintf(`docker build -t "$REPOSITORY_URI:$IMAGE_TAG"%s -f %s %s`,
			args, quote(dockerfilePath), quote(src)),
		`docker push "$REPOSITORY_URI:$IMAGE_TAG"`,
	}

	post := []string{
		fmt.Sprintf(`IMAGE_DIGEST="$(aws ecr describe-images --repository-name %s --image-ids imageTag="$IMAGE_TAG" --query 'imageDetails[0].imageDigest' --output text)"`, quote(repo)),
		`test -n "$IMAGE_DIGEST"`,
		fmt.Sprintf(`printf '%%s' "$REPOSITORY_URI" > %s`, URIFile),
		fmt.Sprintf(`printf '%%s' "$IMAGE_TAG" > %s`, TagFile),
		fmt.Sprintf(`printf '%%s' "$IMAGE_DIGEST" > %s`, DigestFile),
	}

	return Spec{
		Version: "0.2",
		Phases: Phases{
			PreBuild:  &Phase{Commands: pre},
			Build:     &Phase{Commands: build},
			PostBuild: &Phase{Commands: post},
		},
		Artifacts: &Artifacts{Files: []string{URIFile, TagFile, DigestFile}},
	}, nil
}

// DeployInput parameterizes the deploy-stage spec.
type DeployInput struct {
	Cluster string
	Service string
	Family  string
	// PollAttempts and PollInterval bound the steady-state wait.
	PollAttempts int
	PollInterval int
}

// Deploy produces the deploy-stage spec. It reads the artifact triple, takes
// the live task definition, patches only the image reference (read-modify-
// write via jq), registers the new revision, points the service at it, and
// polls until steady state or the wait window closes.
//
// The new revision references the image by content digest, never by tag: the
// deployed image is exactly the one built, immune to tag mutation races.
//
// A FAILED rollout is a hard failure (the service circuit breaker is already
// rolling back); an exhausted wait window is a soft warning because the
// deployment may still converge after the window.
func Deploy(in DeployInput) (Spec, error) {
	cluster, err := SanitizeName(in.Cluster)
	if err != nil {
		return Spec{}, fmt.Errorf("cluster: %w", err)
	}
	service, err := SanitizeName(in.Service)
	if err != nil {
		return Spec{}, fmt.Errorf("service: %w", err)
	}
	family, err := SanitizeName(in.Family)
	if err != nil {
		return Spec{}, fmt.Errorf("family: %w", err)
	}

	attempts := in.PollAttempts
	if attempts <= 0 {
		attempts = 30
	}
	interval := in.PollInterval
	if interval <= 0 {
		interval = 10
	}

	pre := []string{
		fmt.Sprintf(`IMAGE_URI="$(cat %s)"`, URIFile),
		fmt.Sprintf(`IMAGE_DIGEST="$(cat %s)"`, DigestFile),
		`test -n "$IMAGE_URI" && test -n "$IMAGE_DIGEST"`,
		fmt.Sprintf(`aws ecs describe-task-definition --task-definition %s --query taskDefinition > taskdef.json`, quote(family)),
	}

	build := []string{
		// Strip the read-only fields the register call rejects, then pin the
		// image by digest.
		`jq --arg image "$IMAGE_URI@$IMAGE_DIGEST" '.containerDefinitions[0].image = $image | del(.taskDefinitionArn, .revision, .status, .requiresAttributes, .compatibilities, .registeredAt, .registeredBy)' taskdef.json > taskdef-new.json`,
		`NEW_TASKDEF_ARN="$(aws ecs register-task-definition --cli-input-json file://taskdef-new.json --query 'taskDefinition.taskDefinitionArn' --output text)"`,
		fmt.Sprintf(`aws ecs update-service --cluster %s --service %s --task-definition "$NEW_TASKDEF_ARN" > /dev/null`, quote(cluster), quote(service)),
	}

	post := []string{fmt.Sprintf(
		`for i in $(seq 1 %d); do `+
			`STATE="$(aws ecs describe-services --cluster %s --services %s --query 'services[0].deployments[?status==`+"`PRIMARY`"+`].rolloutState' --output text)"; `+
			`if [ "$STATE" = "COMPLETED" ]; then echo "deployment reached steady state"; exit 0; fi; `+
			`if [ "$STATE" = "FAILED" ]; then echo "deployment failed; circuit breaker is rolling back"; exit 1; fi; `+
			`sleep %d; `+
			`done; `+
			`echo "WARNING: deployment not confirmed within wait window"`,
		attempts, quote(cluster), quote(service), interval)}

	return Spec{
		Version: "0.2",
		Phases: Phases{
			PreBuild:  &Phase{Commands: pre},
			Build:     &Phase{Commands: build},
			PostBuild: &Phase{Commands: post},
		},
	}, nil
}

var (
	namePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._/-]*$`)
	pathPattern = regexp.MustCompile(`^[a-zA-Z0-9._][a-zA-Z0-9._/-]*$`)
	argPattern  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// SanitizeName validates a resource name destined for a shell command.
func SanitizeName(s string) (string, error) {
	if !namePattern.MatchString(s) {
		return "", fmt.Errorf("unsafe name %q", s)
	}
	return s, nil
}

// SanitizePath validates a user-supplied path segment. Parent traversal and
// shell metacharacters are rejected rather than escaped.
func SanitizePath(s string) (string, error) {
	if !pathPattern.MatchString(s) || strings.Contains(s, "..") {
		return "", fmt.Errorf("unsafe path %q", s)
	}
	return strings.TrimSuffix(s, "/"), nil
}

// buildArgs renders docker --build-arg flags in sorted key order.
// Keys must be valid variable identifiers; values are single-quoted.
func buildArgs(args map[string]string) (string, error) {
	if len(args) == 0 {
		return "", nil
	}
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		if !argPattern.MatchString(k) {
			return "", fmt.Errorf("unsafe build arg key %q", k)
		}
		fmt.Fprintf(&b, " --build-arg %s=%s", k, quote(args[k]))
	}
	return b.String(), nil
}

// quote single-quotes a value for the shell, escaping embedded quotes.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
