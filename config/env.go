/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"dirpx.dev/modalias/cache/strategy"
)

// Environment variables read by FromEnv.
const (
	EnvBase          = "MODALIAS_BASE"
	EnvDebug         = "MODALIAS_DEBUG"
	EnvHotReload     = "MODALIAS_HOT_RELOAD"
	EnvCacheStrategy = "MODALIAS_CACHE_STRATEGY"
	EnvCacheTTL      = "MODALIAS_CACHE_TTL"
)

// FromEnv loads a .env file from the working directory when present and
// turns the MODALIAS_* variables into options. Unparsable values are
// ignored so the defaults stay in effect.
func FromEnv(files ...string) []Option {
	_ = godotenv.Load(files...)

	var opts []Option
	if base := strings.TrimSpace(os.Getenv(EnvBase)); base != "" {
		opts = append(opts, WithBase(base))
	}
	if v, ok := lookupBool(EnvDebug); ok {
		opts = append(opts, WithDebug(v))
	}
	if v, ok := lookupBool(EnvHotReload); ok {
		opts = append(opts, WithHotReload(v))
	}
	if raw := strings.TrimSpace(os.Getenv(EnvCacheStrategy)); raw != "" {
		if s, err := strategy.Parse(raw); err == nil {
			opts = append(opts, WithCacheStrategy(s))
		}
	}
	if raw := strings.TrimSpace(os.Getenv(EnvCacheTTL)); raw != "" {
		if ttl, err := time.ParseDuration(raw); err == nil {
			opts = append(opts, WithCacheTTL(ttl))
		}
	}
	return opts
}

func lookupBool(key string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
