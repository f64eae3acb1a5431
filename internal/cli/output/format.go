package output

import "fmt"

// FormatSize renders a byte count: whole bytes below 1 KiB, otherwise
// two decimals with KB/MB labels over binary divisors. The exact
// strings appear in upload progress lines and summaries, so this stays
// stable across releases.
func FormatSize(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.2f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.2f MB", float64(n)/(1024*1024))
	}
}
