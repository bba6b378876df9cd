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

package service

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/delivery-approval-service/internal/approval_rules/model"
	errors2 "github.com/wso2/delivery-approval-service/internal/system/errors"
)

func floatPtr(v float64) *float64 {
	return &v
}

func intPtr(v int) *int {
	return &v
}

func assertClientErrorCode(t *testing.T, err error, code string, status int) {
	t.Helper()
	require.Error(t, err)
	var clientErr *errors2.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, code, clientErr.Code)
	assert.Equal(t, status, clientErr.StatusCode)
}

func TestValidateCreateRequest_ValidCustomerRule(t *testing.T) {
	request := model.CreateRuleRequest{
		RuleName:       "Trusted customers",
		RuleType:       model.RuleTypeCustomer,
		CustomerPhones: []string{"+14155550100"},
	}
	assert.NoError(t, validateCreateRequest(&request))
}

func TestValidateCreateRequest_EmptyName(t *testing.T) {
	request := model.CreateRuleRequest{
		RuleType:       model.RuleTypeCustomer,
		CustomerPhones: []string{"+14155550100"},
	}
	err := validateCreateRequest(&request)
	assertClientErrorCode(t, err, errors2.RULE_VALIDATION.Code, http.StatusBadRequest)
}

func TestValidateCreateRequest_UnknownRuleType(t *testing.T) {
	request := model.CreateRuleRequest{
		RuleName: "Geo fence",
		RuleType: "GEO",
	}
	err := validateCreateRequest(&request)
	assertClientErrorCode(t, err, errors2.INVALID_RULE_TYPE.Code, http.StatusBadRequest)
}

func TestValidateCreateRequest_NonPositivePriority(t *testing.T) {
	request := model.CreateRuleRequest{
		RuleName:       "Trusted customers",
		RuleType:       model.RuleTypeCustomer,
		Priority:       intPtr(0),
		CustomerPhones: []string{"+14155550100"},
	}
	err := validateCreateRequest(&request)
	assertClientErrorCode(t, err, errors2.RULE_VALIDATION.Code, http.StatusBadRequest)
}

func TestValidateCreateRequest_CustomerRuleWithoutPhones(t *testing.T) {
	request := model.CreateRuleRequest{
		RuleName: "Trusted customers",
		RuleType: model.RuleTypeCustomer,
	}
	err := validateCreateRequest(&request)
	assertClientErrorCode(t, err, errors2.RULE_VALIDATION.Code, http.StatusBadRequest)
}

func TestValidateCreateRequest_ProductRuleWithoutProducts(t *testing.T) {
	request := model.CreateRuleRequest{
		RuleName: "Staples",
		RuleType: model.RuleTypeProduct,
	}
	err := validateCreateRequest(&request)
	assertClientErrorCode(t, err, errors2.RULE_VALIDATION.Code, http.StatusBadRequest)
}

func TestValidateCreateRequest_AmountRuleNeedsABound(t *testing.T) {
	request := model.CreateRuleRequest{
		RuleName: "Any amount",
		RuleType: model.RuleTypeAmount,
	}
	err := validateCreateRequest(&request)
	assertClientErrorCode(t, err, errors2.RULE_VALIDATION.Code, http.StatusBadRequest)

	request.MinAmount = floatPtr(10)
	assert.NoError(t, validateCreateRequest(&request))
}

func TestValidateCreateRequest_TimeRuleRequiresFullWindow(t *testing.T) {
	request := model.CreateRuleRequest{
		RuleName:    "Business hours",
		RuleType:    model.RuleTypeTime,
		AllowedDays: []string{"MON"},
		StartTime:   "09:00",
	}
	err := validateCreateRequest(&request)
	assertClientErrorCode(t, err, errors2.RULE_VALIDATION.Code, http.StatusBadRequest)

	request.EndTime = "17:00"
	assert.NoError(t, validateCreateRequest(&request))
}

func TestValidateCreateRequest_InvalidWeekdayCode(t *testing.T) {
	request := model.CreateRuleRequest{
		RuleName:    "Business hours",
		RuleType:    model.RuleTypeTime,
		AllowedDays: []string{"MON", "MONDAY"},
		StartTime:   "09:00",
		EndTime:     "17:00",
	}
	err := validateCreateRequest(&request)
	assertClientErrorCode(t, err, errors2.RULE_VALIDATION.Code, http.StatusBadRequest)
}

func TestValidateCreateRequest_InvalidTimeFormat(t *testing.T) {
	for _, invalid := range []string{"9:00", "24:00", "09:60", "0900"} {
		request := model.CreateRuleRequest{
			RuleName:    "Business hours",
			RuleType:    model.RuleTypeTime,
			AllowedDays: []string{"MON"},
			StartTime:   invalid,
			EndTime:     "17:00",
		}
		err := validateCreateRequest(&request)
		assertClientErrorCode(t, err, errors2.RULE_VALIDATION.Code, http.StatusBadRequest)
	}
}

func TestValidateCreateRequest_CombinedRuleWithoutConditions(t *testing.T) {
	// COMBINED rules accept any subset of condition groups, including none.
	// An unconditioned rule is storable; it just never matches.
	request := model.CreateRuleRequest{
		RuleName: "Catch nothing",
		RuleType: model.RuleTypeCombined,
	}
	assert.NoError(t, validateCreateRequest(&request))
}

func TestApplyPatch_UpdatesMutableFields(t *testing.T) {
	rule := model.ApprovalRule{
		RuleName: "Old name",
		RuleType: model.RuleTypeAmount,
		Priority: 5,
	}
	updates := map[string]interface{}{
		"rule_name":   "New name",
		"description": "updated",
		"priority":    float64(2),
		"min_amount":  float64(10),
		"max_amount":  float64(90),
	}
	require.NoError(t, applyPatch(&rule, updates))
	assert.Equal(t, "New name", rule.RuleName)
	assert.Equal(t, "updated", rule.Description)
	assert.Equal(t, 2, rule.Priority)
	require.NotNil(t, rule.MinAmount)
	assert.Equal(t, 10.0, *rule.MinAmount)
	require.NotNil(t, rule.MaxAmount)
	assert.Equal(t, 90.0, *rule.MaxAmount)
}

func TestApplyPatch_NullClearsOptionalFields(t *testing.T) {
	rule := model.ApprovalRule{
		RuleName:  "Bounded",
		RuleType:  model.RuleTypeAmount,
		MinAmount: floatPtr(10),
		MaxAmount: floatPtr(90),
	}
	updates := map[string]interface{}{
		"min_amount": nil,
	}
	require.NoError(t, applyPatch(&rule, updates))
	assert.Nil(t, rule.MinAmount)
	require.NotNil(t, rule.MaxAmount)
}

func TestApplyPatch_RejectsEmptyRuleName(t *testing.T) {
	rule := model.ApprovalRule{RuleName: "Keep me", RuleType: model.RuleTypeCustomer}
	err := applyPatch(&rule, map[string]interface{}{"rule_name": ""})
	assertClientErrorCode(t, err, errors2.RULE_VALIDATION.Code, http.StatusBadRequest)
	assert.Equal(t, "Keep me", rule.RuleName)
}

func TestApplyPatch_RejectsFractionalPriority(t *testing.T) {
	rule := model.ApprovalRule{RuleName: "Rule", RuleType: model.RuleTypeCustomer, Priority: 1}
	err := applyPatch(&rule, map[string]interface{}{"priority": 1.5})
	assertClientErrorCode(t, err, errors2.RULE_VALIDATION.Code, http.StatusBadRequest)
}

func TestApplyPatch_StringListCoercion(t *testing.T) {
	rule := model.ApprovalRule{RuleName: "Rule", RuleType: model.RuleTypeCustomer}

	require.NoError(t, applyPatch(&rule, map[string]interface{}{
		"customer_phones": []interface{}{"+14155550100", "+94771234567"},
	}))
	assert.Equal(t, []string{"+14155550100", "+94771234567"}, rule.CustomerPhones)

	err := applyPatch(&rule, map[string]interface{}{
		"customer_phones": []interface{}{"+14155550100", 42},
	})
	assertClientErrorCode(t, err, errors2.RULE_VALIDATION.Code, http.StatusBadRequest)
}

func TestApplyPatch_RejectsInvalidWeekday(t *testing.T) {
	rule := model.ApprovalRule{RuleName: "Rule", RuleType: model.RuleTypeTime}
	err := applyPatch(&rule, map[string]interface{}{
		"allowed_days": []interface{}{"MON", "XYZ"},
	})
	assertClientErrorCode(t, err, errors2.RULE_VALIDATION.Code, http.StatusBadRequest)
}

func TestApplyPatch_RejectsMalformedTimes(t *testing.T) {
	rule := model.ApprovalRule{RuleName: "Rule", RuleType: model.RuleTypeTime}
	err := applyPatch(&rule, map[string]interface{}{"start_time": "9am"})
	assertClientErrorCode(t, err, errors2.RULE_VALIDATION.Code, http.StatusBadRequest)

	err = applyPatch(&rule, map[string]interface{}{"end_time": "25:00"})
	assertClientErrorCode(t, err, errors2.RULE_VALIDATION.Code, http.StatusBadRequest)
}

func TestAllowedPatchFields_ExcludesImmutableFields(t *testing.T) {
	assert.False(t, allowedPatchFields["rule_type"], "rule type is immutable after creation")
	assert.False(t, allowedPatchFields["is_active"], "active flag is toggled through the status endpoint")
	assert.False(t, allowedPatchFields["tenant_id"])
	assert.False(t, allowedPatchFields["rule_id"])
}
