package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
// Wikimedia asks API clients to send a descriptive agent with a contact point.
var UserAgent = "Birthday-Insights/" + Version + " (+https://github.com/tartampluch/birthday-insights)"

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Birthday Insights"
	AppID             = "com.github.tartampluch.birthday-insights"
	CommandName       = "birthday-insights"
	KeyringService    = "com.github.tartampluch.birthday-insights"
	KeyringTokenUser  = "onthisday-token"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	EnvPrefix         = "BIRTHDAY"
	ConfigFileType    = "yaml"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagDebug   = "debug"
	FlagConfig  = "config"
	FlagAt      = "at"
	FlagWatch   = "watch"
	FlagLang    = "lang"
	FlagUser    = "user"
	FlagPass    = "password-env"
	FlagTokenIn = "stdin"

	FlagDescDebug   = "Enable debug logging"
	FlagDescConfig  = "Path to a YAML configuration file"
	FlagDescAt      = "Reference instant (RFC3339), defaults to now"
	FlagDescWatch   = "Recompute the breakdown on every refresh interval until interrupted"
	FlagDescLang    = "Output language (en, fr)"
	FlagDescUser    = "HTTP Basic Auth user for remote vCard sources"
	FlagDescPass    = "Environment variable holding the HTTP Basic Auth password"
	FlagDescTokenIn = "Read the token from stdin instead of the first argument"

	CmdUseServe    = "serve"
	CmdUseAge      = "age <birth-date>"
	CmdUseContacts = "contacts <path|url>"
	CmdUseToken    = "token"
	CmdUseTokenSet = "set [token]"
	CmdUseTokenDel = "delete"
	CmdUseVersion  = "version"

	CmdShortRoot     = "Birthday statistics, zodiac readings and on-this-day facts"
	CmdShortServe    = "Run the HTTP API"
	CmdShortAge      = "Print the age breakdown for a birth date"
	CmdShortContacts = "Print age breakdowns for every contact of a vCard file or URL"
	CmdShortToken    = "Manage the encyclopedia API token stored in the OS keyring"
	CmdShortTokenSet = "Store the API token"
	CmdShortTokenDel = "Delete the stored API token"
	CmdShortVersion  = "Show application version and exit"

	MsgVersionOutput = "%s version %s (commit %s, built %s, %s/%s)\n"

	// FormatContactLine renders one contact: next date, title, countdown.
	FormatContactLine = "%s\t%s\t%s\n"
)

// -----------------------------------------------------------------------------
// Settings Keys & Defaults
// -----------------------------------------------------------------------------

const (
	KeyServerBind        = "server.bind"
	KeyServerPort        = "server.port"
	KeyOnThisDayBaseURL  = "onthisday.base_url"
	KeyOnThisDayTimeout  = "onthisday.timeout"
	KeyOnThisDayFallback = "onthisday.fallback"
	KeyOnThisDayToken    = "onthisday.token"
	KeyCacheTTL          = "cache.ttl"
	KeyInsightsPageSize  = "insights.page_size"
	KeyInsightsRefresh   = "insights.refresh_interval"
	KeyInsightsLanguage  = "insights.language"
	KeyContactsPath      = "contacts.path"
	KeyContactsURL       = "contacts.url"
	KeyContactsUser      = "contacts.user"
	KeyContactsPassword  = "contacts.password"

	DefaultPort            = 18080
	DefaultOnThisDayURL    = "https://en.wikipedia.org/api/rest_v1"
	DefaultOnThisDayTTL    = 6 * time.Hour
	DefaultRefreshInterval = time.Minute
	DefaultPageSize        = 12
	MaxPageSize            = 100
	DefaultLanguage        = "en"
	DefaultLeapYear        = 2000 // Leap year fallback for dates like --02-29
	UIDSalt                = "birthday-insights-v1-"
	MilestoneEvery         = 1000 // Day-of-life milestones are emitted every N days
	FallbackSeedMonth      = 31   // seed = month*31 + day for the offline lists
	FallbackPeopleCount    = 6
	FallbackEventsCount    = 5
)

// Locale files are embedded as locales/active.<lang>.json.
const (
	LocaleDir        = "locales"
	LocalePrefix     = "active."
	LocaleSuffix     = ".json"
	LocaleFormatJSON = "json"
)

// SupportedLanguages defines the list of available languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyAgeSummary      = "age_summary"         // Requires Years, Months, Days
	TKeyAgeYears        = "age_years"           // Requires Count
	TKeyAgeMonths       = "age_months"          // Requires Count
	TKeyAgeDays         = "age_days"            // Requires Count
	TKeyDayOfLife       = "day_of_life"         // Requires Ordinal
	TKeyTotalDays       = "total_days"          // Requires Count
	TKeyTotalHours      = "total_hours"         // Requires Count
	TKeyTotalMinutes    = "total_minutes"       // Requires Count
	TKeyTotalSeconds    = "total_seconds"       // Requires Count
	TKeyCelebration     = "celebration"         // Requires Count
	TKeyZodiacLine      = "zodiac_line"         // Requires Sign
	TKeyEvtSummary      = "event_summary"       // Requires Name
	TKeyEvtSummaryAge   = "event_summary_age"   // Requires Name, Age
	TKeyEvtSummaryBirth = "event_summary_birth" // Requires Name (For age 0)
	TKeyEvtMilestone    = "event_milestone"     // Requires Name, Ordinal
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion = "2.0"
	ICalProdid  = "-//Birthday Insights//Engine//EN"
	ICalCalName = "Birthday Insights"
	ICalMethod  = "PUBLISH"
	ICalScale   = "GREGORIAN"
	ICalDomain  = "birthday-insights"

	// iCal/vCard Fields
	PropUID        = "UID"
	PropSummary    = "SUMMARY"
	PropDTStart    = "DTSTART"
	PropDTStamp    = "DTSTAMP"
	PropRefresh    = "REFRESH-INTERVAL"
	PropVersion    = "VERSION"
	PropProdid     = "PRODID"
	PropXWRCalName = "X-WR-CALNAME"
	PropCalScale   = "CALSCALE"
	PropMethod     = "METHOD"
	PropCategories = "CATEGORIES"

	CategoryBirthday  = "BIRTHDAY"
	CategoryMilestone = "MILESTONE"

	VCardBDAY = "BDAY"
	VCardFN   = "FN"

	DefaultICalRefresh = 24 * time.Hour

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"
)

// -----------------------------------------------------------------------------
// Data Formats & Limits
// -----------------------------------------------------------------------------

const (
	// Date layouts used for parsing vCard BDAY fields and query parameters
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"
	DateFormatFeed      = "%02d/%02d" // MM/DD path segment of the on-this-day feed

	// UID Generation
	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%s-%d@%s"
	FormatUIDDay    = "%s-day%d@%s"

	// Text splitting rules of the on-this-day feed
	PersonSeparator   = ","
	EventSeparator    = " – "
	DefaultPersonDesc = "Famous person"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 15 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	MaxHTTPResponseSize = 32 * 1024 * 1024 // 32MB
	MaxVCardSize        = 256 * 1024 * 1024
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	AddrSeparator       = ":"
	BearerPrefix        = "Bearer "

	FeedPathFormat = "%s/feed/onthisday/%s/%s"

	RouteHealth    = "/healthz"
	RouteMetrics   = "/metrics"
	RouteAPI       = "/api/v1"
	RouteAge       = "/age"
	RouteZodiac    = "/zodiac/{month}/{day}"
	RoutePeople    = "/onthisday/{month}/{day}/people"
	RouteEvents    = "/onthisday/{month}/{day}/events"
	RouteInsights  = "/insights"
	RouteCalendar  = "/calendar.ics"
	RouteContacts  = "/contacts.ics"
	ParamMonth     = "month"
	ParamDay       = "day"
	QueryBirth     = "birth"
	QueryAt        = "at"
	QueryType      = "type"
	QueryPage      = "page"
	QueryPerPage   = "per_page"
	QueryLang      = "lang"
	QueryName      = "name"
	HealthResponse = "OK"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderAuthorization   = "Authorization"
	HeaderAccept          = "Accept"
	HeaderAcceptLanguage  = "Accept-Language"
	HeaderContentLanguage = "Content-Language"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"
	HeaderRetryAfter      = "Retry-After"

	MimeJSON            = "application/json; charset=utf-8"
	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"
	RetryAfterSeconds   = "30"
	MimeTextPlain       = "text/plain; charset=utf-8"
	MimeVCard           = "text/vcard"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrInvalidRange    = "reference instant precedes birth instant"
	ErrInvalidDate     = "invalid date"
	ErrFutureBirth     = "birth date is in the future"
	ErrUpstream        = "encyclopedia request failed"
	ErrUpstreamStatus  = "encyclopedia returned unexpected status"
	ErrUpstreamDecode  = "failed to decode encyclopedia response"
	ErrFetcherMissing  = "internal error: network fetcher is not initialized"
	ErrContactsFetch   = "contacts download failed"
	ErrContactsStatus  = "contacts server returned unexpected status"
	ErrVCardTooLarge   = "vCard collection exceeds size limit"
	ErrSourceMissing   = "configuration error: no contact source given"
	ErrServerStartup   = "server startup failed"
	ErrServerShutdown  = "server shutdown failed"
	ErrPortRequired    = "server port is required"
	ErrInvalidURL      = "invalid URL structure"
	ErrProtocol        = "unsupported protocol scheme (http/https only)"
	ErrVCardParse      = "failed to parse vCard stream"
	ErrICalEncode      = "failed to encode iCalendar data"
	ErrDateParse       = "unable to parse date"
	ErrLogFile         = "failed to open log file"
	ErrCacheDir        = "could not determine user cache dir"
	ErrCreateDir       = "could not create app cache dir"
	ErrAppFailed       = "application failed unexpectedly"
	ErrWriteResp       = "failed to write response body"
	ErrLocalesAccess   = "failed to access embedded locales"
	ErrLocaleLoad      = "failed to load locale file"
	ErrSettingsRead    = "failed to read configuration file"
	ErrSettingsDecode  = "failed to decode configuration"
	ErrSettingsInvalid = "invalid configuration"
	ErrKeyring         = "keyring access failed"
	ErrTokenEmpty      = "token is empty"
	ErrInvalidQuery    = "invalid query parameters"
	ErrTickerInterval  = "ticker interval must be positive"
	ErrArgCount        = "wrong number of arguments"
	ErrInternal        = "internal error"
	ErrInitializing    = "calendar is initializing"
)

// -----------------------------------------------------------------------------
// Fallbacks & Messages
// -----------------------------------------------------------------------------

const (
	FallbackSummary      = "Birthday: %s"
	FallbackSummaryAge   = "Birthday: %s (%d)"
	FallbackSummaryBirth = "Birthday: %s (birth)"
	FallbackMilestone    = "%s: %s day of life"
	FallbackName         = "Unknown"

	MsgAppStarting    = "Starting application"
	MsgAppStop        = "Application stopped gracefully"
	MsgServerListen   = "HTTP server listening"
	MsgServerStop     = "Shutting down HTTP server..."
	MsgWorkerStart    = "Background worker started"
	MsgWorkerStop     = "Worker stopping due to context cancellation"
	MsgWarmup         = "Prefetching on-this-day feeds"
	MsgWarmupFailed   = "Prefetch failed"
	MsgFetchFeed      = "Fetching on-this-day feed"
	MsgFetchContacts  = "Downloading vCard collection"
	MsgFeedFallback   = "Encyclopedia unavailable, serving built-in list"
	MsgCacheHit       = "Feed cache hit"
	MsgSkippedCard    = "Skipping malformed vCard"
	MsgSkippedDate    = "Skipping invalid date format"
	MsgContactsLoaded = "Contacts loaded"
	MsgCalendarBuilt  = "Calendar generated"
	MsgLocaleSkip     = "Skipping non-locale file"
	MsgLocaleBadName  = "Skipping malformed locale filename"
	MsgLocaleLoaded   = "Locale loaded successfully"
	MsgTransMissing   = "Missing translation key"
	MsgTokenKeyring   = "Token not found in keyring"
	MsgTokenStored    = "Token stored in keyring"
	MsgTokenDeleted   = "Token deleted from keyring"
	MsgSettingsFile   = "Configuration file loaded"
	MsgRequestFailed  = "Request failed"
	MsgLogWarning     = "Warning: %s at %s: %v\n"
	MsgCacheUpdated   = "Calendar cache updated"
	MsgSyncFailed     = "Contacts refresh failed"
	MsgRequest        = "HTTP request"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyAddr      = "addr"
	LogKeyInterval  = "interval"
	LogKeyKind      = "kind"
	LogKeyDate      = "date"
	LogKeyCount     = "count"
	LogKeyTotal     = "total_cards"
	LogKeyFound     = "birthdays_found"
	LogKeyEvents    = "events"
	LogKeyStats     = "stats"
	LogKeySizeBytes = "size_bytes"
	LogKeyValue     = "value"
	LogKeyRoute     = "route"
	LogKeyDuration  = "duration_ms"
	LogKeyETag      = "etag"
	LogKeyMethod    = "method"
	LogKeyRequestID = "request_id"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompMain      = "main"
	CompContacts  = "contacts"
	CompCalendar  = "calendar"
	CompFetcher   = "fetcher"
	CompOnThisDay = "onthisday"
	CompInsights  = "insights"
	CompServer    = "server"
	CompWorker    = "worker"
	CompI18n      = "i18n"
	CompSettings  = "settings"
	CompKeyring   = "keyring"
)
