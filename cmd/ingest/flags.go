package main

import (
	"strconv"
	"strings"
)

// optionalBool is a flag that remembers whether it was set, so false and
// "not given" stay distinct.
type optionalBool struct {
	value *bool
}

func (b *optionalBool) String() string {
	if b == nil || b.value == nil {
		return ""
	}
	return strconv.FormatBool(*b.value)
}

func (b *optionalBool) Set(raw string) error {
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return err
	}
	b.value = &v
	return nil
}

// IsBoolFlag lets "--is-live" be given without "=true".
func (b *optionalBool) IsBoolFlag() bool {
	return true
}

func (b *optionalBool) Ptr() *bool {
	return b.value
}

// stringList collects a repeatable flag. Each occurrence may also carry a
// comma separated list.
type stringList []string

func (l *stringList) String() string {
	if l == nil {
		return ""
	}
	return strings.Join(*l, ",")
}

func (l *stringList) Set(raw string) error {
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*l = append(*l, part)
		}
	}
	return nil
}
