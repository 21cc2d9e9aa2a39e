package config

// ExampleConfig is written by `wework init-config`.
const ExampleConfig = `# WeWork CLI configuration.
# Credentials are never stored here; use WEWORK_USERNAME / WEWORK_PASSWORD or a .env file.

# Enable debug logging.
debug: false

# Write logs to a rotating file under log-dir instead of stderr.
logging-to-file: false
# log-dir: ~/.wework/logs
# logs-max-total-size-mb: 50

# Optional outbound proxy. Supports socks5://, http:// and https://.
proxy-url: ""

# Per-request timeout in seconds.
request-timeout: 30

# Browser TLS fingerprint for the identity provider: "", firefox, chrome or safari.
tls-fingerprint: ""

# Upper bound on redirects followed after the login form relay.
max-redirects: 10

# Retries of a whole login attempt after a transient network failure.
max-retries: 1

# Disable the progress spinner.
no-spinner: false

# Publish the generated calendar to an S3 compatible bucket (wework calendar --publish).
calendar-store:
  endpoint: ""
  bucket: ""
  access-key: ""
  secret-key: ""
  region: ""
  prefix: ""
  object-key: "wework.ics"
  use-ssl: true
`
