// Package i18n holds the fixed bilingual message table for user-visible
// failures. Arabic is the primary text, English the secondary, matching the
// portal's presentation order.
package i18n

import "fmt"

// Message codes. Handlers map service errors onto these.
const (
	MsgInvalidCredentials    = "auth.invalid_credentials"
	MsgAccountDisabled       = "auth.account_disabled"
	MsgWeakPassword          = "auth.weak_password"
	MsgEmailTaken            = "auth.email_taken"
	MsgEmailNotVerified      = "auth.email_not_verified"
	MsgRegistrationsClosed   = "auth.registrations_closed"
	MsgSessionExpired        = "auth.session_expired"
	MsgVerificationInvalid   = "auth.verification_invalid"
	MsgNotAuthorized         = "authz.not_authorized"
	MsgAdminOnly             = "authz.admin_only"
	MsgOwnRoleChange         = "authz.own_role_change"
	MsgMaintenance           = "system.maintenance"
	MsgFileTooLarge          = "upload.file_too_large"
	MsgProjectQuotaExceeded  = "project.quota_exceeded"
	MsgRequiredFieldMissing  = "form.required_field_missing"
	MsgConcurrentModified    = "form.concurrent_modification"
	MsgNotFound              = "common.not_found"
)

type Entry struct {
	Arabic  string `json:"ar"`
	English string `json:"en"`
}

var table = map[string]Entry{
	MsgInvalidCredentials:   {"البريد الإلكتروني أو كلمة المرور غير صحيحة", "Invalid email or password"},
	MsgAccountDisabled:      {"تم تعطيل هذا الحساب", "This account has been disabled"},
	MsgWeakPassword:         {"كلمة المرور ضعيفة، يجب ألا تقل عن ٨ أحرف", "Password is too weak, minimum 8 characters"},
	MsgEmailTaken:           {"البريد الإلكتروني مستخدم مسبقاً", "Email address is already in use"},
	MsgEmailNotVerified:     {"يرجى تأكيد بريدك الإلكتروني أولاً", "Please verify your email address first"},
	MsgRegistrationsClosed:  {"التسجيل مغلق حالياً", "New registrations are currently closed"},
	MsgSessionExpired:       {"انتهت صلاحية الجلسة، يرجى تسجيل الدخول مجدداً", "Session expired, please sign in again"},
	MsgVerificationInvalid:  {"رمز التحقق غير صالح أو منتهي الصلاحية", "Verification code is invalid or expired"},
	MsgNotAuthorized:        {"ليست لديك صلاحية لتنفيذ هذا الإجراء", "You are not authorized to perform this action"},
	MsgAdminOnly:            {"هذه الصفحة مخصصة للمشرفين فقط", "This area is restricted to administrators"},
	MsgOwnRoleChange:        {"لا يمكنك تغيير دورك الخاص", "You cannot change your own role"},
	MsgMaintenance:          {"الموقع تحت الصيانة حالياً، نعود قريباً", "The site is under maintenance, back soon"},
	MsgFileTooLarge:         {"حجم الملف يتجاوز الحد المسموح (١٠ ميجابايت)", "File exceeds the maximum allowed size (10 MB)"},
	MsgProjectQuotaExceeded: {"لقد بلغت الحد الأقصى لعدد المشاريع", "You have reached your project limit"},
	MsgRequiredFieldMissing: {"يرجى تعبئة جميع الحقول المطلوبة", "Please fill in all required fields"},
	MsgConcurrentModified:   {"تم تعديل العنصر من مكان آخر، يرجى المحاولة مجدداً", "The item was modified elsewhere, please retry"},
	MsgNotFound:             {"العنصر المطلوب غير موجود", "The requested item was not found"},
}

// Lookup returns the bilingual entry for a code. Unknown codes fall back to
// echoing the code itself so a missing entry is visible rather than blank.
func Lookup(code string) Entry {
	if e, ok := table[code]; ok {
		return e
	}
	return Entry{Arabic: code, English: code}
}

// Format renders "<arabic> / <english>" for inline display.
func Format(code string) string {
	e := Lookup(code)
	return fmt.Sprintf("%s / %s", e.Arabic, e.English)
}
