package i18n

var ALLOW_LANG = map[string]bool{
	"en":    true,
	"zh-CN": true,
}

const DEFAULT_LANG = "zh-CN"

const (
	ERROR_INTERNAL          = "error.internal"
	ERROR_NOT_FOUND         = "error.notfound"
	ERROR_INVALIDARGUMENT   = "error.invalidargument"
	ERROR_PERMISSION_DENIED = "error.permission.denied"
	ERROR_UNAUTHORIZED      = "error.unauthorized"
	ERROR_EXIST             = "error.exist"
	ERROR_FORBIDDEN         = "error.forbidden"
	ERROR_TOO_MANY_REQUESTS = "error.tooManyRequests"
	ERROR_MORE_TAHN_MAX     = "error.moreThanMax"
	ERROR_INVALID_TOKEN     = "error.invalid.token"
	ERROR_SIGN_INVALID      = "error.sign.invalid"
	ERROR_TOKEN_EXPIRED     = "error.token.expired"
	ERROR_FILE_TYPE         = "error.file.type"
	ERROR_FILE_TOO_LARGE    = "error.file.too_large"
	ERROR_PAGE_ARGUMENT     = "error.page.argument"
	ERROR_SORT_COLUMN       = "error.sort.column"

	MESSAGE_OK          = "message.ok"
	MESSAGE_FAILED      = "message.failed"
	MESSAGE_QUERY_OK    = "message.query.ok"
	MESSAGE_LOGOUT_OK   = "message.logout.ok"
	MESSAGE_UPLOAD_OK   = "message.upload.ok"
	MESSAGE_REGISTER_OK = "message.register.ok"
)
