package errors

// Error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL
// The frontend maps these codes to display messages.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email/password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // token expired
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // malformed/forged token
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // token signed out
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // duplicate email
	AuthResetTokenInvalid  = "AUTH_RESET_TOKEN_INVALID" // unknown reset token
	AuthResetTokenExpired  = "AUTH_RESET_TOKEN_EXPIRED" // reset token expired
	AuthResetTokenUsed     = "AUTH_RESET_TOKEN_USED"    // reset token reused

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // role does not grant access
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // no role information
	AuthzRolePending  = "AUTHZ_ROLE_PENDING"   // role resolution in flight

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // malformed request
	ValidationInvalidID    = "VALIDATION_INVALID_ID"    // bad record id
	ValidationTooShort     = "VALIDATION_TOO_SHORT"     // e.g. password length
	ValidationRequired     = "VALIDATION_REQUIRED"      // missing required field

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // record missing
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // duplicate

	// ==================== Orders (ORDER_) ====================
	OrderNotFound             = "ORDER_NOT_FOUND"              // order missing
	OrderInvalidStatus        = "ORDER_INVALID_STATUS"         // not one of the four stages
	OrderInvalidPaymentMethod = "ORDER_INVALID_PAYMENT_METHOD" // unknown payment method
	OrderConfirmRequired      = "ORDER_CONFIRM_REQUIRED"       // delete without confirm

	// ==================== Users (USER_) ====================
	UserNotFound    = "USER_NOT_FOUND"    // user record missing
	UserInvalidRole = "USER_INVALID_ROLE" // not a storable role

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // server fault
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DB fault
)
