// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import "errors"

var errNoContainers = errors.New("no containers given: pass paths or set dgo_names")
