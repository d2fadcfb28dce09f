package domain

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// ClockFromPtr returns the first non-nil *ClockTime value, or the fallback.
func ClockFromPtr(fallback ClockTime, ptrs ...*ClockTime) ClockTime {
	for _, p := range ptrs {
		if p != nil {
			return *p
		}
	}
	return fallback
}
