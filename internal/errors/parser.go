package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo pairs an error code with its user-facing message
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError maps an error to a code and a user-facing message.
// Sensitive details stay out of the message; the raw error is for logs only.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "サーバーエラーが発生しました",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. GORM base errors
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// 2. PostgreSQL constraint errors

	// 2-1. Unique constraint violation (23505)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStr)
	}

	// 2-2. Not null constraint violation (23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return parseNotNullError(errStr)
	}

	// 3. Network/connection errors
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "データベースに接続できませんでした。しばらくしてからもう一度お試しください",
		}
	}

	// 4. Default internal server error
	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "email") || strings.Contains(errLower, "idx_users_email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "このメールアドレスはすでに登録されています",
		}
	}

	if strings.Contains(errLower, "order_token") || strings.Contains(errLower, "idx_orders_order_token") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "注文IDが重複しました。もう一度お試しください",
		}
	}

	if strings.Contains(errLower, "pkey") || strings.Contains(errLower, "primary key") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "すでに存在するデータです。もう一度お試しください",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "すでに存在するデータです",
	}
}

func parseNotNullError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "email") {
		return ErrorInfo{Code: ValidationRequired, Message: "メールアドレスは必須項目です"}
	}
	if strings.Contains(errLower, "password") {
		return ErrorInfo{Code: ValidationRequired, Message: "パスワードは必須項目です"}
	}
	if strings.Contains(errLower, "name") {
		return ErrorInfo{Code: ValidationRequired, Message: "お名前は必須項目です"}
	}

	return ErrorInfo{
		Code:    ValidationRequired,
		Message: "必須項目が入力されていません",
	}
}

// getNotFoundMessage picks a Not Found message for the given context
func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "order") {
		return "注文が見つかりません"
	}
	if strings.Contains(contextLower, "user") {
		return "ユーザーが見つかりません"
	}
	if strings.Contains(contextLower, "reset") {
		return "リンクが無効、または有効期限が切れています"
	}
	return "データが見つかりません"
}

// getDefaultErrorMessage picks a default message for the given context
func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "create") || strings.Contains(contextLower, "register") {
		return "登録に失敗しました。しばらくしてからもう一度お試しください"
	}
	if strings.Contains(contextLower, "update") {
		return "保存に失敗しました。しばらくしてからもう一度お試しください"
	}
	if strings.Contains(contextLower, "delete") {
		return "削除に失敗しました。しばらくしてからもう一度お試しください"
	}
	return "処理中にエラーが発生しました。しばらくしてからもう一度お試しください"
}

// ParseAndRespond parses an error and writes the standard error response
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
