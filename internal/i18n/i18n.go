package i18n

import "strings"

// Translations for the UI chrome and form error codes. English is the
// default; Arabic covers the Gulf clientele.
var translations = map[string]map[string]string{
	"en": {
		"required":              "Required",
		"must_not_be_negative":  "Must not be negative",
		"too_long":              "Too long",
		"invalid_date":          "Invalid date",
		"dashboard":             "Dashboard",
		"create_invoice":        "Create Invoice",
		"edit_invoice":          "Edit Invoice",
		"search":                "Search",
		"invoice_number":        "Invoice Number",
		"invoice_date":          "Invoice Date",
		"due_date":              "Due Date",
		"bill_to":               "Bill To",
		"mobile_number":         "Mobile Number",
		"description":           "Description",
		"quantity":              "Quantity",
		"price":                 "Price",
		"total":                 "Total",
		"download_pdf":          "Download PDF",
		"no_results":            "No invoices found",
		"login":                 "Log In",
		"signup":                "Sign Up",
		"logout":                "Log Out",
	},
	"ar": {
		"required":       "مطلوب",
		"invalid_date":   "تاريخ غير صالح",
		"dashboard":      "لوحة التحكم",
		"create_invoice": "إنشاء فاتورة",
		"edit_invoice":   "تعديل الفاتورة",
		"search":         "بحث",
		"invoice_number": "رقم الفاتورة",
		"invoice_date":   "تاريخ الفاتورة",
		"due_date":       "تاريخ الاستحقاق",
		"bill_to":        "فاتورة إلى",
		"mobile_number":  "رقم الجوال",
		"description":    "الوصف",
		"quantity":       "الكمية",
		"price":          "السعر",
		"total":          "المجموع",
		"download_pdf":   "تحميل PDF",
		"no_results":     "لا توجد فواتير",
		"login":          "تسجيل الدخول",
		"signup":         "إنشاء حساب",
		"logout":         "تسجيل الخروج",
	},
}

const defaultLang = "en"

// T translates code for lang, falling back to the default language,
// then to the code itself.
func T(lang, code string) string {
	if m, ok := translations[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := translations[defaultLang][code]; ok {
		return s
	}
	return code
}

// DetectLanguage picks a supported language from an Accept-Language
// header value, defaulting to English.
func DetectLanguage(acceptLanguage string) string {
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag := strings.ToLower(strings.TrimSpace(strings.SplitN(part, ";", 2)[0]))
		base, _, _ := strings.Cut(tag, "-")
		if _, ok := translations[base]; ok {
			return base
		}
	}
	return defaultLang
}
