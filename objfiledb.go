// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/LeeDigitalWorks/objfiledb/cmd"

	"github.com/getsentry/sentry-go"
)

func main() {
	// An empty DSN (no SENTRY_DSN) disables reporting.
	err := sentry.Init(sentry.ClientOptions{
		Release:    cmd.Version,
		SampleRate: 1.0,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "sentry.Init: %v", err)
	}
	defer sentry.Flush(2 * time.Second)

	cmd.Execute()
}
