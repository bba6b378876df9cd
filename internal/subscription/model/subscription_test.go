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

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuleLimit_PerPlan(t *testing.T) {
	assert.Equal(t, 0, RuleLimit(PlanBasic))
	assert.Equal(t, 3, RuleLimit(PlanStandard))
	assert.Equal(t, UnlimitedRules, RuleLimit(PlanPremium))
}

func TestRuleLimit_UnknownPlanGetsNoRules(t *testing.T) {
	assert.Equal(t, 0, RuleLimit("ENTERPRISE"))
	assert.Equal(t, 0, RuleLimit(""))
}

func TestIsPayable(t *testing.T) {
	cases := map[string]bool{
		StatusActive:   true,
		StatusTrial:    true,
		StatusPastDue:  false,
		StatusCanceled: false,
		"":             false,
	}
	for status, expected := range cases {
		sub := TenantSubscription{Status: status}
		assert.Equal(t, expected, sub.IsPayable(), "status %q", status)
	}
}
