package i18n

import "golang.org/x/text/language"

type MessageKey string

const (
	MsgSignupSuccess      MessageKey = "signup_success"
	MsgLoginSuccess       MessageKey = "login_success"
	MsgLogoutSuccess      MessageKey = "logout_success"
	MsgRegisterMissing    MessageKey = "register_missing_fields"
	MsgLoginMissing       MessageKey = "login_missing_fields"
	MsgUserExists         MessageKey = "user_exists"
	MsgInvalidCredentials MessageKey = "invalid_credentials"
	MsgUnauthorized       MessageKey = "unauthorized"
	MsgTodoListFetched    MessageKey = "todo_list_fetched"
	MsgTodoFetched        MessageKey = "todo_fetched"
	MsgTodoCreated        MessageKey = "todo_created"
	MsgTodoUpdated        MessageKey = "todo_updated"
	MsgTodoDeleted        MessageKey = "todo_deleted"
	MsgTodoNotFound       MessageKey = "todo_not_found"
	MsgTitleRequired      MessageKey = "title_required"
	MsgInvalidPriority    MessageKey = "invalid_priority"
	MsgInvalidDueDate     MessageKey = "invalid_due_date"
	MsgInvalidRequest     MessageKey = "invalid_request"
	MsgInvalidField       MessageKey = "invalid_field"
	MsgProfileUpdated     MessageKey = "profile_updated"
	MsgNameRequired       MessageKey = "name_required"
	MsgPasswordMissing    MessageKey = "password_missing_fields"
	MsgPasswordWrong      MessageKey = "password_wrong"
	MsgPasswordUpdated    MessageKey = "password_updated"
	MsgPasswordTooLong    MessageKey = "password_too_long"
	MsgAccountDeleted     MessageKey = "account_deleted"
	MsgUserNotFound       MessageKey = "user_not_found"
	MsgInternal           MessageKey = "internal_error"
	MsgTooManyRequests    MessageKey = "too_many_requests"
	MsgUnsupportedLang    MessageKey = "unsupported_language"
	MsgUnsupportedTheme   MessageKey = "unsupported_theme"
)

var catalog = map[language.Tag]map[MessageKey]string{
	language.English: {
		MsgSignupSuccess:      "Signup Successful.",
		MsgLoginSuccess:       "Login Successful.",
		MsgLogoutSuccess:      "Signed out.",
		MsgRegisterMissing:    "Email, password and name are required.",
		MsgLoginMissing:       "Email and password are required.",
		MsgUserExists:         "User already exists.",
		MsgInvalidCredentials: "Invalid email or password.",
		MsgUnauthorized:       "Unauthorized",
		MsgTodoListFetched:    "Fetched todo list.",
		MsgTodoFetched:        "Fetched task.",
		MsgTodoCreated:        "New task added.",
		MsgTodoUpdated:        "Updated",
		MsgTodoDeleted:        "Deleted",
		MsgTodoNotFound:       "Task not found.",
		MsgTitleRequired:      "Title is required.",
		MsgInvalidPriority:    "Priority must be LOW, MEDIUM or HIGH.",
		MsgInvalidDueDate:     "Due date must be YYYY-MM-DD or an RFC 3339 timestamp.",
		MsgInvalidRequest:     "Invalid request body.",
		MsgInvalidField:       "One or more fields are invalid.",
		MsgProfileUpdated:     "Profile updated successfully.",
		MsgNameRequired:       "Name must not be empty.",
		MsgPasswordMissing:    "Missing fields",
		MsgPasswordWrong:      "Current password is wrong",
		MsgPasswordUpdated:    "Password updated successfully",
		MsgPasswordTooLong:    "Password must be at most 72 bytes.",
		MsgAccountDeleted:     "Account deleted successfully",
		MsgUserNotFound:       "User not found.",
		MsgInternal:           "Something went wrong",
		MsgTooManyRequests:    "Too many requests. Please slow down.",
		MsgUnsupportedLang:    "Unsupported language.",
		MsgUnsupportedTheme:   "Theme must be light, dark or system.",
	},
	language.Turkish: {
		MsgSignupSuccess:      "Kayıt başarılı.",
		MsgLoginSuccess:       "Giriş başarılı.",
		MsgLogoutSuccess:      "Çıkış yapıldı.",
		MsgRegisterMissing:    "E-posta, şifre ve isim zorunludur.",
		MsgLoginMissing:       "E-posta ve şifre zorunludur.",
		MsgUserExists:         "Bu kullanıcı zaten mevcut.",
		MsgInvalidCredentials: "Geçersiz e-posta veya şifre.",
		MsgUnauthorized:       "Yetkisiz erişim",
		MsgTodoListFetched:    "Görev listesi getirildi.",
		MsgTodoFetched:        "Görev getirildi.",
		MsgTodoCreated:        "Yeni görev eklendi.",
		MsgTodoUpdated:        "Güncellendi",
		MsgTodoDeleted:        "Silindi",
		MsgTodoNotFound:       "Görev bulunamadı.",
		MsgTitleRequired:      "Başlık zorunludur.",
		MsgInvalidPriority:    "Öncelik LOW, MEDIUM veya HIGH olmalıdır.",
		MsgInvalidDueDate:     "Bitiş tarihi YYYY-AA-GG veya RFC 3339 biçiminde olmalıdır.",
		MsgInvalidRequest:     "Geçersiz istek gövdesi.",
		MsgInvalidField:       "Bir veya daha fazla alan geçersiz.",
		MsgProfileUpdated:     "Profil başarıyla güncellendi.",
		MsgNameRequired:       "İsim boş olamaz.",
		MsgPasswordMissing:    "Eksik alanlar",
		MsgPasswordWrong:      "Mevcut şifre yanlış",
		MsgPasswordUpdated:    "Şifre başarıyla güncellendi",
		MsgPasswordTooLong:    "Şifre en fazla 72 bayt olabilir.",
		MsgAccountDeleted:     "Hesap başarıyla silindi",
		MsgUserNotFound:       "Kullanıcı bulunamadı.",
		MsgInternal:           "Bir şeyler ters gitti",
		MsgTooManyRequests:    "Çok fazla istek. Lütfen yavaşlayın.",
		MsgUnsupportedLang:    "Desteklenmeyen dil.",
		MsgUnsupportedTheme:   "Tema light, dark veya system olmalıdır.",
	},
}

// Translate renders key in tag, falling back to English and then to the key itself.
func Translate(tag language.Tag, key MessageKey) string {
	if msg, ok := catalog[tag][key]; ok {
		return msg
	}
	if msg, ok := catalog[language.English][key]; ok {
		return msg
	}
	return string(key)
}
