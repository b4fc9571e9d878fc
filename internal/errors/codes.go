package errors

// Error code constants, format: CATEGORY_SPECIFIC_DETAIL.
// The frontend maps these codes to localized messages.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// ==================== Users (USER_) ====================
	UserNotFound         = "USER_NOT_FOUND"
	UserSelfDeleteDenied = "USER_SELF_DELETE_DENIED"

	// ==================== Products (PRODUCT_) ====================
	ProductNotFound = "PRODUCT_NOT_FOUND"

	// ==================== Cart (CART_) ====================
	CartItemNotFound = "CART_ITEM_NOT_FOUND"
	CartEmpty        = "CART_EMPTY"

	// ==================== Orders (ORDER_) ====================
	OrderNotFound          = "ORDER_NOT_FOUND"
	OrderInsufficientStock = "ORDER_INSUFFICIENT_STOCK"
	OrderInvalidStatus     = "ORDER_INVALID_STATUS"

	// ==================== Favorites (FAVORITE_) ====================
	FavoriteNotFound      = "FAVORITE_NOT_FOUND"
	FavoriteAlreadyExists = "FAVORITE_ALREADY_EXISTS"

	// ==================== Reviews (REVIEW_) ====================
	ReviewInvalidRating = "REVIEW_INVALID_RATING"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
)
