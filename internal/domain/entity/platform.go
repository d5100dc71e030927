// Package entity 定义领域实体
package entity

import (
	"fmt"
	"strings"
)

// Platform 目标社交平台
type Platform string

const (
	PlatformTwitter  Platform = "twitter"
	PlatformLinkedIn Platform = "linkedin"
)

// ParsePlatform 解析平台名称，x 视为 twitter
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "twitter", "x":
		return PlatformTwitter, nil
	case "linkedin":
		return PlatformLinkedIn, nil
	default:
		return "", fmt.Errorf("unsupported platform: %q", s)
	}
}

// Valid 是否为已知平台
func (p Platform) Valid() bool {
	return p == PlatformTwitter || p == PlatformLinkedIn
}

// UsesHashtags 平台是否使用结尾话题标签
func (p Platform) UsesHashtags() bool {
	return p == PlatformLinkedIn
}

// CharLimit 平台单条内容字符上限，未知平台返回 0
func (p Platform) CharLimit() int {
	switch p {
	case PlatformTwitter:
		return 280
	case PlatformLinkedIn:
		return 3000
	default:
		return 0
	}
}

func (p Platform) String() string {
	return string(p)
}
