package spawn

// Domain groups the keywords that identify a technology area and the
// capabilities a specialist agent for that area ships with.
type Domain struct {
	Name         string
	Keywords     []string
	Capabilities []string
}

// Domains is the keyword lookup table driving agent auto-detection, in
// match priority order.
var Domains = []Domain{
	{
		Name:         "database",
		Keywords:     []string{"postgres", "mysql", "mongodb", "redis", "elasticsearch", "cassandra", "dynamodb"},
		Capabilities: []string{"query optimization", "schema management", "backup/recovery", "replication", "performance tuning"},
	},
	{
		Name:         "messaging",
		Keywords:     []string{"kafka", "rabbitmq", "sqs", "sns", "pubsub", "nats", "activemq"},
		Capabilities: []string{"message routing", "queue management", "topic configuration", "consumer groups", "dead letter handling"},
	},
	{
		Name:         "monitoring",
		Keywords:     []string{"prometheus", "grafana", "datadog", "newrelic", "elk", "splunk", "cloudwatch"},
		Capabilities: []string{"metric collection", "alerting", "dashboard creation", "log aggregation", "performance analysis"},
	},
	{
		Name:         "networking",
		Keywords:     []string{"nginx", "haproxy", "traefik", "istio", "envoy", "cloudflare", "cdn"},
		Capabilities: []string{"load balancing", "traffic routing", "ssl management", "rate limiting", "caching"},
	},
	{
		Name:         "storage",
		Keywords:     []string{"s3", "gcs", "azure blob", "minio", "ceph", "gluster", "nfs"},
		Capabilities: []string{"object storage", "file management", "backup strategies", "replication", "lifecycle policies"},
	},
	{
		Name:         "serverless",
		Keywords:     []string{"lambda", "functions", "fargate", "cloud run", "azure functions", "vercel", "netlify"},
		Capabilities: []string{"function deployment", "event triggers", "api gateway", "cold start optimization", "cost management"},
	},
	{
		Name:         "ml_ops",
		Keywords:     []string{"mlflow", "kubeflow", "sagemaker", "tensorflow", "pytorch", "model", "training"},
		Capabilities: []string{"model deployment", "experiment tracking", "pipeline orchestration", "model versioning", "inference optimization"},
	},
	{
		Name:         "testing",
		Keywords:     []string{"jest", "pytest", "selenium", "cypress", "junit", "mocha", "playwright"},
		Capabilities: []string{"test automation", "coverage analysis", "performance testing", "integration testing", "mocking"},
	},
}

// colorPool is the palette spawned agents draw from; each agent gets a
// color not yet used in the registry when one is available.
var colorPool = []string{"blue", "green", "purple", "orange", "cyan", "magenta", "yellow"}
