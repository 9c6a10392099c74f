package config

import (
	"bytes"
	"log"
)

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
}

// MustDistinct stops start-up when two secrets share a value.
func MustDistinct(a, b []byte, aName, bName string) {
	if bytes.Equal(a, b) {
		log.Fatalf("%s and %s must differ", aName, bName)
	}
}
