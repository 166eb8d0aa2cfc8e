//go:build linux

package config

const defaultPushToTalk = "rightctrl"
