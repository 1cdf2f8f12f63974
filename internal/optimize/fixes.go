package optimize

import (
	"strings"
	"time"

	"agentdoctor/internal/remedy"
)

// Issue phrases pairing performance breaches with fixes.
const (
	triggerSlowResponse  = "Response time above threshold"
	triggerHighErrorRate = "Error rate above threshold"
	triggerLowEfficiency = "Efficiency below threshold"
)

const cachingConfig = `
## Performance Optimization
` + "```yaml" + `
caching:
  enabled: true
  strategy: aggressive
  ttl: 3600
  preload: common_queries

parallel_execution:
  enabled: true
  max_workers: 4

optimization_flags:
  - skip_validation_on_cached
  - use_connection_pooling
  - enable_query_optimization
  - minimize_network_calls
` + "```" + `
`

const errorHandlingConfig = `
## Enhanced Error Handling
` + "```yaml" + `
error_handling:
  retry_strategy:
    max_retries: 3
    backoff: exponential
    base_delay: 1

  fallback_modes:
    - graceful_degradation
    - cached_response
    - peer_agent_handoff
    - manual_intervention

  error_tracking:
    log_all_errors: true
    alert_threshold: 5
    auto_recovery: enabled

  recovery_procedures:
    - reset_state
    - clear_cache
    - reload_configuration
    - request_orchestrator_help
` + "```" + `
`

const efficiencyConfig = `
## Resource Optimization
` + "```yaml" + `
resource_optimization:
  memory_management:
    max_memory: 512MB
    garbage_collection: aggressive
    cache_eviction: lru

  cpu_optimization:
    thread_pool: dynamic
    priority: adaptive
    batch_processing: enabled

  network_efficiency:
    connection_reuse: true
    compression: enabled
    batch_requests: true

  storage_optimization:
    cleanup_interval: daily
    compression: enabled
    archival_policy: 30_days
` + "```" + `
`

const selfDiagnosticSection = `
## Self-Diagnostic Configuration
` + "```yaml" + `
self_diagnostic:
  enabled: true
  frequency: continuous
  auto_repair: true

  health_checks:
    - configuration_validity
    - dependency_availability
    - performance_metrics
    - resource_usage
    - error_patterns

  thresholds:
    success_rate: 0.95
    response_time: 2.0
    error_rate: 0.05
    resource_usage: 0.80
` + "```" + `
`

const structuralFrontmatter = `---
auto_optimize: true
performance_tracking: enabled
self_healing: active
---

`

// fixCatalog declares the optimizer's fix table. Order is fixed:
// performance-driven block insertions first, then structural
// normalizations (frontmatter, version tracking, self-diagnostic
// section). Every fix is idempotent via its marker guard.
func fixCatalog(now time.Time) *remedy.Catalog {
	return remedy.NewCatalog(
		remedy.Fix{
			Name:    "optimize_for_speed",
			Trigger: triggerSlowResponse,
			Marker:  "caching:",
			Apply: func(content string) (string, string, error) {
				next, ok := insertBeforeFirstHeading(content, cachingConfig)
				if !ok {
					return content, "", remedy.ErrNotApplicable
				}
				return next, "Added performance optimization configuration", nil
			},
		},
		remedy.Fix{
			Name:    "add_error_handling",
			Trigger: triggerHighErrorRate,
			Marker:  "error_handling:",
			Apply: func(content string) (string, string, error) {
				next, ok := insertBeforeFirstHeading(content, errorHandlingConfig)
				if !ok {
					return content, "", remedy.ErrNotApplicable
				}
				return next, "Enhanced error handling and recovery", nil
			},
		},
		remedy.Fix{
			Name:    "optimize_efficiency",
			Trigger: triggerLowEfficiency,
			Marker:  "resource_optimization:",
			Apply: func(content string) (string, string, error) {
				next, ok := insertBeforeFirstHeading(content, efficiencyConfig)
				if !ok {
					return content, "", remedy.ErrNotApplicable
				}
				return next, "Added resource optimization configuration", nil
			},
		},
		remedy.Fix{
			Name: "add_frontmatter",
			Apply: func(content string) (string, string, error) {
				if strings.HasPrefix(content, "---") {
					return content, "", remedy.ErrNotApplicable
				}
				return structuralFrontmatter + content, "Added optimization frontmatter", nil
			},
		},
		remedy.Fix{
			Name: "add_version_tracking",
			Apply: func(content string) (string, string, error) {
				// Only the frontmatter area counts; a version key deep in
				// the body is not version tracking.
				head := content
				if len(head) > 500 {
					head = head[:500]
				}
				if strings.Contains(head, "version:") {
					return content, "", remedy.ErrNotApplicable
				}
				next, ok := insertBeforeClosingDelimiter(content,
					"version: "+now.Format("2006.01.02"),
					"last_optimized: "+now.Format(time.RFC3339))
				if !ok {
					return content, "", remedy.ErrNotApplicable
				}
				return next, "Added version tracking", nil
			},
		},
		remedy.Fix{
			Name:   "add_self_diagnostic",
			Marker: "self_diagnostic:",
			Apply: func(content string) (string, string, error) {
				if strings.Contains(content, "Self-Diagnostic") {
					return content, "", remedy.ErrNotApplicable
				}
				return content + "\n" + selfDiagnosticSection, "Added self-diagnostic configuration", nil
			},
		},
	)
}

// insertBeforeFirstHeading inserts a block just above the first markdown
// "## " heading. Content without a heading past position zero is left
// unchanged.
func insertBeforeFirstHeading(content, block string) (string, bool) {
	idx := strings.Index(content, "## ")
	if idx <= 0 {
		return content, false
	}
	return content[:idx] + block + "\n" + content[idx:], true
}

// insertBeforeClosingDelimiter inserts lines just above the frontmatter's
// terminating "---".
func insertBeforeClosingDelimiter(content string, insert ...string) (string, bool) {
	if !strings.HasPrefix(content, "---") {
		return content, false
	}
	lines := strings.Split(content, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			out := make([]string, 0, len(lines)+len(insert))
			out = append(out, lines[:i]...)
			out = append(out, insert...)
			out = append(out, lines[i:]...)
			return strings.Join(out, "\n"), true
		}
	}
	return content, false
}
