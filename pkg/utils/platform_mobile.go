//go:build mobile

package utils

// IsMobile ebitenmobile 构建始终为 true
func IsMobile() bool {
	return true
}
