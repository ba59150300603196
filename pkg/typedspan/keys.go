package typedspan

// Database keys shared by every database variant.
const (
	DBSystemKey              = "db.system"
	DBConnectionStringKey    = "db.connection_string"
	DBUserKey                = "db.user"
	DBJDBCDriverClassnameKey = "db.jdbc.driver_classname"
	DBNameKey                = "db.name"
	DBStatementKey           = "db.statement"
	DBOperationKey           = "db.operation"
	DBRedisDatabaseIndexKey  = "db.redis.database_index"
	DBSQLTableKey            = "db.sql.table"
)

// Network keys.
const (
	NetPeerNameKey  = "net.peer.name"
	NetPeerIPKey    = "net.peer.ip"
	NetPeerPortKey  = "net.peer.port"
	NetTransportKey = "net.transport"
	NetHostNameKey  = "net.host.name"
	NetHostPortKey  = "net.host.port"
)

// HTTP server keys.
const (
	HTTPMethodKey               = "http.method"
	HTTPURLKey                  = "http.url"
	HTTPTargetKey               = "http.target"
	HTTPHostKey                 = "http.host"
	HTTPSchemeKey               = "http.scheme"
	HTTPStatusCodeKey           = "http.status_code"
	HTTPFlavorKey               = "http.flavor"
	HTTPUserAgentKey            = "http.user_agent"
	HTTPRequestContentLengthKey = "http.request_content_length"
	HTTPServerNameKey           = "http.server_name"
	HTTPRouteKey                = "http.route"
	HTTPClientIPKey             = "http.client_ip"
)

// Well-known values.
const (
	DBSystemRedis      = "redis"
	DBSystemPostgreSQL = "postgresql"
	DBSystemSqlite     = "sqlite"

	NetTransportTCP    = "ip_tcp"
	NetTransportUDP    = "ip_udp"
	NetTransportUnix   = "unix"
	NetTransportPipe   = "pipe"
	NetTransportInProc = "inproc"
	NetTransportOther  = "other"
)
