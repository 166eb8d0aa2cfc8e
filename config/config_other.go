//go:build !linux

package config

const defaultPushToTalk = "ctrl+option+space"
