/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package config

import "sync"

// DASRuntime holds the runtime configuration for the delivery approval service.
type DASRuntime struct {
	DASHome string `yaml:"das_home"`
	Config  Config `yaml:"config"`
}

var (
	runtimeConfig *DASRuntime
	once          sync.Once
)

// InitializeDASRuntime initializes the DASRuntime configuration.
func InitializeDASRuntime(dasHome string, config *Config) error {

	once.Do(func() {
		runtimeConfig = &DASRuntime{
			DASHome: dasHome,
			Config:  *config,
		}
	})

	return nil
}

// GetDASRuntime returns the DASRuntime configuration.
func GetDASRuntime() *DASRuntime {

	if runtimeConfig == nil {
		panic("DASRuntime is not initialized")
	}
	return runtimeConfig
}

// OverrideDASRuntime replaces the runtime configuration. Used by tests.
func OverrideDASRuntime(conf Config) {
	runtimeConfig = &DASRuntime{
		Config: conf,
	}
}
