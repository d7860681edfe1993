// Package i18n resolves user-facing strings for the storefront. Arabic is the
// primary language, English the fallback, matching the language toggle of the
// web client.
package i18n

import (
	"golang.org/x/text/language"
)

const (
	Arabic  = "ar"
	English = "en"
	Default = Arabic
)

var matcher = language.NewMatcher([]language.Tag{
	language.Arabic,
	language.English,
})

var catalogs = map[string]map[string]string{
	Arabic: {
		"user.default_name":       "المستخدم",
		"product.default_type":    "منتج",
		"payment.omflous":         "تحويل عبر أم فلوس",
		"payment.cash":            "دفع نقدي",
		"notice.cart_added":       "تم إضافة المنتج للسلة",
		"notice.cart_removed":     "تم إزالة المنتج من السلة",
		"notice.login_ok":         "تم تسجيل الدخول بنجاح",
		"notice.register_ok":      "تم إنشاء الحساب بنجاح",
		"notice.logout_ok":        "تم تسجيل الخروج بنجاح",
		"notice.order_ok":         "تم إرسال الطلب بنجاح",
		"notice.share_copied":     "تم نسخ معلومات المنتج",
		"error.cart_empty":        "السلة فارغة",
		"error.name_required":     "الاسم مطلوب",
		"error.phone_invalid":     "رقم الهاتف غير صحيح",
		"error.password_required": "كلمة المرور مطلوبة",
		"error.password_short":    "كلمة المرور يجب أن تكون 6 أحرف على الأقل",
		"error.password_mismatch": "كلمة المرور غير متطابقة",
		"error.product_unknown":   "المنتج غير موجود",
		"order.header":            "طلب جديد:",
		"order.name":              "الاسم",
		"order.phone":             "الهاتف",
		"order.details":           "تفاصيل الطلب",
		"order.quantity":          "الكمية",
		"order.price":             "السعر",
		"order.total":             "الإجمالي",
		"order.payment":           "طريقة الدفع",
		"currency":                "ريال",
		"inquiry.default":         "مرحباً، أريد الاستفسار عن خدماتكم",
		"share.message":           "شاهد هذا المنتج الرائع: %s بسعر %d ريال فقط!",
	},
	English: {
		"user.default_name":       "Customer",
		"product.default_type":    "Product",
		"payment.omflous":         "Om Flous transfer",
		"payment.cash":            "Cash payment",
		"notice.cart_added":       "Product added to cart",
		"notice.cart_removed":     "Product removed from cart",
		"notice.login_ok":         "Signed in successfully",
		"notice.register_ok":      "Account created successfully",
		"notice.logout_ok":        "Signed out successfully",
		"notice.order_ok":         "Order sent successfully",
		"notice.share_copied":     "Product details copied",
		"error.cart_empty":        "Cart is empty",
		"error.name_required":     "Name is required",
		"error.phone_invalid":     "Invalid phone number",
		"error.password_required": "Password is required",
		"error.password_short":    "Password must be at least 6 characters",
		"error.password_mismatch": "Passwords do not match",
		"error.product_unknown":   "Product not found",
		"order.header":            "New order:",
		"order.name":              "Name",
		"order.phone":             "Phone",
		"order.details":           "Order details",
		"order.quantity":          "Quantity",
		"order.price":             "Price",
		"order.total":             "Total",
		"order.payment":           "Payment method",
		"currency":                "YER",
		"inquiry.default":         "Hello, I would like to ask about your services",
		"share.message":           "Check out this great product: %s for only %d YER!",
	},
}

// T resolves key in the given language, falling back to Arabic and finally to
// the key itself so missing entries stay visible instead of rendering empty.
func T(lang, key string) string {
	if m, ok := catalogs[lang]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	if s, ok := catalogs[Default][key]; ok {
		return s
	}
	return key
}

// PaymentLabel resolves a payment-method key to its display label. Unknown
// keys fall back to cash, matching the original storefront behavior.
func PaymentLabel(lang, key string) string {
	label := T(lang, "payment."+key)
	if label == "payment."+key {
		return T(lang, "payment.cash")
	}
	return label
}

// Match maps an Accept-Language header to a supported language code.
func Match(acceptLanguage string) string {
	if acceptLanguage == "" {
		return Default
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, idx, _ := matcher.Match(tags...)
	if idx == 1 {
		return English
	}
	return Arabic
}

// Toggle flips between the two supported languages.
func Toggle(lang string) string {
	if lang == Arabic {
		return English
	}
	return Arabic
}

// Supported reports whether lang is a known language code.
func Supported(lang string) bool {
	_, ok := catalogs[lang]
	return ok
}
