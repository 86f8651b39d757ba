package shortcode

// MaxCustomLength 自定义短码的最大长度，与 short_links.short_code 列宽一致
const MaxCustomLength = 32

// reserved 与系统路由冲突的短码
var reserved = map[string]struct{}{
	"admin":  {},
	"login":  {},
	"logout": {},
	"stats":  {},
	"toggle": {},
	"health": {},
	"static": {},
}

// IsReserved 判断短码是否被系统路由占用（区分大小写）
func IsReserved(code string) bool {
	_, ok := reserved[code]
	return ok
}

// ValidCustom 自定义短码只能包含字母、数字、- 和 _，保证它是一个完整的路径段
func ValidCustom(code string) bool {
	if code == "" || len(code) > MaxCustomLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}
