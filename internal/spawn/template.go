package spawn

import (
	"strings"
	"text/template"
)

// agentConfig is the data rendered into the agent template.
type agentConfig struct {
	Name         string
	Domain       string
	Description  string
	Capabilities []string
	Model        string
	Color        string
	Version      string
	CreatedAt    string
}

var agentTemplate = template.Must(template.New("agent").Funcs(template.FuncMap{
	"upper": strings.ToUpper,
	"title": titleCase,
}).Parse(`---
name: {{.Name}}
description: {{.Description}}
model: {{.Model}}
color: {{.Color}}
auto_optimize: true
self_healing: true
version: {{.Version}}
spawned_at: {{.CreatedAt}}
spawned_by: Dynamic Agent Spawner
---

# {{upper .Name}} Agent

## Identity
**Domain**: {{.Domain}}
**Type**: Dynamically Spawned Specialist
**Status**: Active and Learning

## Core Capabilities
{{range .Capabilities}}- **{{title .}}**: Enabled and continuously improving
{{end}}
## Specialized Knowledge Base
` + "```yaml" + `
domain_expertise:
  primary: {{.Domain}}
  technology: {{.Name}}

knowledge_sources:
  - official_documentation
  - best_practices
  - community_patterns
  - learned_experiences

continuous_learning:
  enabled: true
  sources:
    - execution_feedback
    - peer_agents
    - user_corrections
    - pattern_recognition
` + "```" + `

## Auto-Optimization Configuration
` + "```yaml" + `
optimization:
  self_learning: enabled
  performance_tracking: active

  optimization_triggers:
    - performance_degradation
    - repeated_errors
    - inefficiency_detected
    - new_patterns_found

  optimization_actions:
    - update_knowledge_base
    - refine_execution_patterns
    - adjust_parameters
    - request_orchestrator_guidance
` + "```" + `

## Integration Matrix
` + "```yaml" + `
integrations:
  upstream:
    - master
    - orchestrator

  peer_collaboration:
    # Dynamically discovered based on task requirements

  downstream:
    # Service-specific integrations
` + "```" + `

## Performance Metrics
` + "```yaml" + `
performance_targets:
  response_time: <1s
  success_rate: >95%
  learning_rate: continuous
  optimization_frequency: daily

current_metrics:
  # Automatically tracked and updated
  response_time: tracking...
  success_rate: tracking...
  total_executions: 0
  patterns_learned: 0
` + "```" + `

## Self-Diagnostic Protocol
` + "```yaml" + `
health_monitoring:
  frequency: continuous

  checks:
    - configuration_validity
    - capability_verification
    - performance_metrics
    - error_patterns
    - resource_usage

  auto_repair:
    enabled: true
    actions:
      - reset_on_failure
      - clear_error_state
      - optimize_resources
      - request_help_if_needed
` + "```" + `

## Evolution Log
` + "```yaml" + `
evolution_history:
  - version: {{.Version}}
    date: {{.CreatedAt}}
    event: "Initial spawn by Dynamic Agent Spawner"
    trigger: "User request for {{.Name}} capabilities"
` + "```" + `

## Notes
- This agent was dynamically spawned based on detected need
- It includes self-learning and optimization capabilities
- Performance and behavior will improve over time
`))

// renderAgent produces the full markdown content for a spawned agent.
func renderAgent(cfg agentConfig) (string, error) {
	var b strings.Builder
	if err := agentTemplate.Execute(&b, cfg); err != nil {
		return "", err
	}
	return b.String(), nil
}

// titleCase capitalizes each word. strings.Title is deprecated and this
// only ever sees ASCII capability names.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
