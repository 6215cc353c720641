package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/url"
	"strings"
)

// AvatarColors represents the available avatar background colors
var AvatarColors = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FFEAA7",
	"#DDA0DD", "#98D8C8", "#F7DC6F", "#BB8FCE", "#85C1E9",
}

// GenerateRandomAvatar generates a random avatar URL using DiceBear
func GenerateRandomAvatar() string {
	seed, _ := rand.Int(rand.Reader, big.NewInt(1000000))

	styles := []string{"avataaars", "personas", "micah", "miniavs", "bottts"}
	styleIndex, _ := rand.Int(rand.Reader, big.NewInt(int64(len(styles))))
	style := styles[styleIndex.Int64()]

	return fmt.Sprintf("https://api.dicebear.com/7.x/%s/svg?seed=%d", style, seed.Int64())
}

// GenerateAvatarWithInitials generates an avatar with user initials
func GenerateAvatarWithInitials(initials string) string {
	colorIndex, _ := rand.Int(rand.Reader, big.NewInt(int64(len(AvatarColors))))
	color := AvatarColors[colorIndex.Int64()]

	return fmt.Sprintf("https://api.dicebear.com/7.x/initials/svg?seed=%s&backgroundColor=%s",
		url.QueryEscape(initials), url.QueryEscape(strings.TrimPrefix(color, "#")))
}

// Initials derives up to two uppercase initials from a full name
func Initials(fullName string) string {
	var initials strings.Builder
	for _, word := range strings.Fields(fullName) {
		initials.WriteString(strings.ToUpper(word[:1]))
		if initials.Len() >= 2 {
			break
		}
	}
	if initials.Len() == 0 {
		return "?"
	}
	return initials.String()
}
