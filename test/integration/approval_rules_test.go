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

package integration

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rulemodel "github.com/wso2/delivery-approval-service/internal/approval_rules/model"
	ruleservice "github.com/wso2/delivery-approval-service/internal/approval_rules/service"
	evalmodel "github.com/wso2/delivery-approval-service/internal/evaluation/model"
	evalservice "github.com/wso2/delivery-approval-service/internal/evaluation/service"
	submodel "github.com/wso2/delivery-approval-service/internal/subscription/model"
	errors2 "github.com/wso2/delivery-approval-service/internal/system/errors"
)

func seedSubscription(t *testing.T, tenantId, plan, status string) {
	t.Helper()
	now := time.Now().Unix()
	_, err := testPostgres.DB.Exec(
		`INSERT INTO tenant_subscriptions (tenant_id, plan, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		tenantId, plan, status, now, now)
	require.NoError(t, err)
}

func floatPtr(v float64) *float64 {
	return &v
}

func intPtr(v int) *int {
	return &v
}

func requireClientError(t *testing.T, err error, code string, status int) {
	t.Helper()
	require.Error(t, err)
	var clientErr *errors2.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, code, clientErr.Code)
	assert.Equal(t, status, clientErr.StatusCode)
}

func TestCreateAndFetchApprovalRule(t *testing.T) {
	tenantId := "tenant-roundtrip"
	seedSubscription(t, tenantId, submodel.PlanPremium, submodel.StatusActive)
	service := ruleservice.GetApprovalRuleService()

	created, err := service.AddApprovalRule(tenantId, rulemodel.CreateRuleRequest{
		RuleName:       "VIP small orders",
		Description:    "Known customers below the manual review threshold",
		RuleType:       rulemodel.RuleTypeCombined,
		Priority:       intPtr(2),
		CustomerPhones: []string{"+14155550100", "+94771234567"},
		MaxAmount:      floatPtr(150),
		AllowedDays:    []string{"MON", "TUE", "WED", "THU", "FRI"},
		StartTime:      "09:00",
		EndTime:        "18:00",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.RuleId)
	assert.True(t, created.IsActive, "rules default to active")
	assert.Equal(t, tenantId, created.TenantId)

	fetched, err := service.GetApprovalRule(tenantId, created.RuleId)
	require.NoError(t, err)
	assert.Equal(t, "VIP small orders", fetched.RuleName)
	assert.Equal(t, rulemodel.RuleTypeCombined, fetched.RuleType)
	assert.Equal(t, 2, fetched.Priority)
	assert.Equal(t, []string{"+14155550100", "+94771234567"}, fetched.CustomerPhones)
	require.NotNil(t, fetched.MaxAmount)
	assert.Equal(t, 150.0, *fetched.MaxAmount)
	assert.Equal(t, []string{"MON", "TUE", "WED", "THU", "FRI"}, fetched.AllowedDays)
	assert.Equal(t, "09:00", fetched.StartTime)
	assert.Equal(t, "18:00", fetched.EndTime)
}

func TestTierQuota_StandardPlanCapsActiveRules(t *testing.T) {
	tenantId := "tenant-quota-standard"
	seedSubscription(t, tenantId, submodel.PlanStandard, submodel.StatusActive)
	service := ruleservice.GetApprovalRuleService()

	for i := 1; i <= 3; i++ {
		_, err := service.AddApprovalRule(tenantId, rulemodel.CreateRuleRequest{
			RuleName:  fmt.Sprintf("Amount rule %d", i),
			RuleType:  rulemodel.RuleTypeAmount,
			MaxAmount: floatPtr(float64(i * 10)),
		})
		require.NoError(t, err, "rule %d should fit within the STANDARD cap", i)
	}

	_, err := service.AddApprovalRule(tenantId, rulemodel.CreateRuleRequest{
		RuleName:  "One too many",
		RuleType:  rulemodel.RuleTypeAmount,
		MaxAmount: floatPtr(99),
	})
	requireClientError(t, err, errors2.TIER_LIMIT_REACHED.Code, http.StatusForbidden)
}

func TestTierQuota_BasicPlanAllowsNoRules(t *testing.T) {
	tenantId := "tenant-quota-basic"
	seedSubscription(t, tenantId, submodel.PlanBasic, submodel.StatusActive)
	service := ruleservice.GetApprovalRuleService()

	_, err := service.AddApprovalRule(tenantId, rulemodel.CreateRuleRequest{
		RuleName:  "Not allowed",
		RuleType:  rulemodel.RuleTypeAmount,
		MaxAmount: floatPtr(10),
	})
	requireClientError(t, err, errors2.TIER_LIMIT_REACHED.Code, http.StatusForbidden)
}

func TestTierQuota_NoSubscriptionForbidden(t *testing.T) {
	service := ruleservice.GetApprovalRuleService()

	_, err := service.AddApprovalRule("tenant-without-subscription", rulemodel.CreateRuleRequest{
		RuleName:  "Orphan rule",
		RuleType:  rulemodel.RuleTypeAmount,
		MaxAmount: floatPtr(10),
	})
	requireClientError(t, err, errors2.NO_ACTIVE_SUBSCRIPTION.Code, http.StatusForbidden)
}

func TestTierQuota_CanceledSubscriptionForbidden(t *testing.T) {
	tenantId := "tenant-canceled"
	seedSubscription(t, tenantId, submodel.PlanPremium, submodel.StatusCanceled)
	service := ruleservice.GetApprovalRuleService()

	_, err := service.AddApprovalRule(tenantId, rulemodel.CreateRuleRequest{
		RuleName:  "Lapsed",
		RuleType:  rulemodel.RuleTypeAmount,
		MaxAmount: floatPtr(10),
	})
	requireClientError(t, err, errors2.NO_ACTIVE_SUBSCRIPTION.Code, http.StatusForbidden)
}

func TestStatusToggle_ReactivationRechecksQuota(t *testing.T) {
	tenantId := "tenant-quota-toggle"
	seedSubscription(t, tenantId, submodel.PlanStandard, submodel.StatusActive)
	service := ruleservice.GetApprovalRuleService()

	var ruleIds []string
	for i := 1; i <= 3; i++ {
		rule, err := service.AddApprovalRule(tenantId, rulemodel.CreateRuleRequest{
			RuleName:  fmt.Sprintf("Toggle rule %d", i),
			RuleType:  rulemodel.RuleTypeAmount,
			MaxAmount: floatPtr(float64(i * 10)),
		})
		require.NoError(t, err)
		ruleIds = append(ruleIds, rule.RuleId)
	}

	// Free one slot, fill it with a fourth rule.
	deactivated, err := service.SetApprovalRuleStatus(tenantId, ruleIds[0], false)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	_, err = service.AddApprovalRule(tenantId, rulemodel.CreateRuleRequest{
		RuleName:  "Backfill rule",
		RuleType:  rulemodel.RuleTypeAmount,
		MaxAmount: floatPtr(40),
	})
	require.NoError(t, err)

	// Reactivating the parked rule would exceed the cap again.
	_, err = service.SetApprovalRuleStatus(tenantId, ruleIds[0], true)
	requireClientError(t, err, errors2.TIER_LIMIT_REACHED.Code, http.StatusForbidden)

	// Deactivating is always allowed.
	_, err = service.SetApprovalRuleStatus(tenantId, ruleIds[1], false)
	require.NoError(t, err)

	// With a slot free again the reactivation goes through.
	reactivated, err := service.SetApprovalRuleStatus(tenantId, ruleIds[0], true)
	require.NoError(t, err)
	assert.True(t, reactivated.IsActive)
}

func TestCrossTenantIsolation(t *testing.T) {
	ownerTenant := "tenant-isolation-owner"
	otherTenant := "tenant-isolation-other"
	seedSubscription(t, ownerTenant, submodel.PlanPremium, submodel.StatusActive)
	seedSubscription(t, otherTenant, submodel.PlanPremium, submodel.StatusActive)
	service := ruleservice.GetApprovalRuleService()

	rule, err := service.AddApprovalRule(ownerTenant, rulemodel.CreateRuleRequest{
		RuleName:       "Owner only",
		RuleType:       rulemodel.RuleTypeCustomer,
		CustomerPhones: []string{"+14155550100"},
	})
	require.NoError(t, err)

	_, err = service.GetApprovalRule(otherTenant, rule.RuleId)
	requireClientError(t, err, errors2.RULE_NOT_FOUND.Code, http.StatusNotFound)

	_, err = service.PatchApprovalRule(otherTenant, rule.RuleId, map[string]interface{}{
		"rule_name": "Hijacked",
	})
	requireClientError(t, err, errors2.RULE_NOT_FOUND.Code, http.StatusNotFound)

	err = service.DeleteApprovalRule(otherTenant, rule.RuleId)
	requireClientError(t, err, errors2.RULE_NOT_FOUND.Code, http.StatusNotFound)

	// The owner still sees the unmodified rule.
	kept, err := service.GetApprovalRule(ownerTenant, rule.RuleId)
	require.NoError(t, err)
	assert.Equal(t, "Owner only", kept.RuleName)
}

func TestListApprovalRules_FilterAndTierInfo(t *testing.T) {
	tenantId := "tenant-listing"
	seedSubscription(t, tenantId, submodel.PlanPremium, submodel.StatusActive)
	service := ruleservice.GetApprovalRuleService()

	var ruleIds []string
	for i := 1; i <= 4; i++ {
		rule, err := service.AddApprovalRule(tenantId, rulemodel.CreateRuleRequest{
			RuleName:  fmt.Sprintf("List rule %d", i),
			RuleType:  rulemodel.RuleTypeAmount,
			Priority:  intPtr(i),
			MaxAmount: floatPtr(float64(i * 10)),
		})
		require.NoError(t, err)
		ruleIds = append(ruleIds, rule.RuleId)
	}
	_, err := service.SetApprovalRuleStatus(tenantId, ruleIds[3], false)
	require.NoError(t, err)

	all, err := service.GetApprovalRules(tenantId, rulemodel.ListFilter{}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, all.Rules, 4)
	assert.Equal(t, 4, all.Pagination.Total)
	assert.Equal(t, submodel.PlanPremium, all.Tier.Plan)
	assert.Equal(t, submodel.UnlimitedRules, all.Tier.RulesLimit)

	// Priority ascending ordering.
	for i := 1; i < len(all.Rules); i++ {
		assert.LessOrEqual(t, all.Rules[i-1].Priority, all.Rules[i].Priority)
	}

	active := true
	activeOnly, err := service.GetApprovalRules(tenantId, rulemodel.ListFilter{IsActive: &active}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, activeOnly.Rules, 3)
	for _, rule := range activeOnly.Rules {
		assert.True(t, rule.IsActive)
	}

	paged, err := service.GetApprovalRules(tenantId, rulemodel.ListFilter{}, 1, 2)
	require.NoError(t, err)
	assert.Len(t, paged.Rules, 2)
	assert.Equal(t, 2, paged.Pagination.TotalPages)
}

func TestEvaluation_EndToEnd(t *testing.T) {
	tenantId := "tenant-evaluation"
	seedSubscription(t, tenantId, submodel.PlanPremium, submodel.StatusActive)
	rules := ruleservice.GetApprovalRuleService()
	evaluator := evalservice.GetEvaluationService()

	_, err := rules.AddApprovalRule(tenantId, rulemodel.CreateRuleRequest{
		RuleName:  "Small orders",
		RuleType:  rulemodel.RuleTypeAmount,
		Priority:  intPtr(1),
		MaxAmount: floatPtr(50),
	})
	require.NoError(t, err)

	trusted, err := rules.AddApprovalRule(tenantId, rulemodel.CreateRuleRequest{
		RuleName:       "Trusted customers",
		RuleType:       rulemodel.RuleTypeCustomer,
		Priority:       intPtr(2),
		CustomerPhones: []string{"+14155550100"},
	})
	require.NoError(t, err)

	// The small-order rule has the better priority and wins.
	result, err := evaluator.Evaluate(context.Background(), tenantId, evalmodel.DeliveryRequest{
		CustomerPhone: "+14155550100",
		TotalAmount:   20,
	})
	require.NoError(t, err)
	assert.True(t, result.ShouldAutoApprove)
	assert.Equal(t, "Matched rule: Small orders", result.Reason)

	// Above the amount cap only the customer rule matches.
	result, err = evaluator.Evaluate(context.Background(), tenantId, evalmodel.DeliveryRequest{
		CustomerPhone: "+14155550100",
		TotalAmount:   500,
	})
	require.NoError(t, err)
	assert.True(t, result.ShouldAutoApprove)
	assert.Equal(t, "Matched rule: Trusted customers", result.Reason)

	// Unknown customer above the cap matches nothing.
	result, err = evaluator.Evaluate(context.Background(), tenantId, evalmodel.DeliveryRequest{
		CustomerPhone: "+94770000000",
		TotalAmount:   500,
	})
	require.NoError(t, err)
	assert.False(t, result.ShouldAutoApprove)
	assert.Equal(t, evalservice.ReasonNoRulesMatched, result.Reason)

	// Deactivated rules are invisible to evaluation.
	_, err = rules.SetApprovalRuleStatus(tenantId, trusted.RuleId, false)
	require.NoError(t, err)
	result, err = evaluator.Evaluate(context.Background(), tenantId, evalmodel.DeliveryRequest{
		CustomerPhone: "+14155550100",
		TotalAmount:   500,
	})
	require.NoError(t, err)
	assert.False(t, result.ShouldAutoApprove)
}

func TestEvaluation_NoActiveRulesReason(t *testing.T) {
	evaluator := evalservice.GetEvaluationService()

	result, err := evaluator.Evaluate(context.Background(), "tenant-no-rules", evalmodel.DeliveryRequest{
		CustomerPhone: "+14155550100",
		TotalAmount:   10,
	})
	require.NoError(t, err)
	assert.False(t, result.ShouldAutoApprove)
	assert.Nil(t, result.MatchedRule)
	assert.Equal(t, evalservice.ReasonNoActiveRules, result.Reason)
}

func TestPatchApprovalRule_FieldRules(t *testing.T) {
	tenantId := "tenant-patch"
	seedSubscription(t, tenantId, submodel.PlanPremium, submodel.StatusActive)
	service := ruleservice.GetApprovalRuleService()

	rule, err := service.AddApprovalRule(tenantId, rulemodel.CreateRuleRequest{
		RuleName:  "Patch target",
		RuleType:  rulemodel.RuleTypeAmount,
		Priority:  intPtr(5),
		MaxAmount: floatPtr(100),
	})
	require.NoError(t, err)

	patched, err := service.PatchApprovalRule(tenantId, rule.RuleId, map[string]interface{}{
		"rule_name": "Patched name",
		"priority":  float64(1),
		"min_amount": float64(10),
	})
	require.NoError(t, err)
	assert.Equal(t, "Patched name", patched.RuleName)
	assert.Equal(t, 1, patched.Priority)
	require.NotNil(t, patched.MinAmount)
	assert.Equal(t, 10.0, *patched.MinAmount)

	_, err = service.PatchApprovalRule(tenantId, rule.RuleId, map[string]interface{}{
		"rule_type": rulemodel.RuleTypeCustomer,
	})
	requireClientError(t, err, errors2.RULE_FIELD_NOT_UPDATABLE.Code, http.StatusBadRequest)

	_, err = service.PatchApprovalRule(tenantId, rule.RuleId, map[string]interface{}{
		"is_active": false,
	})
	requireClientError(t, err, errors2.RULE_FIELD_NOT_UPDATABLE.Code, http.StatusBadRequest)
}

func TestDeleteApprovalRule(t *testing.T) {
	tenantId := "tenant-delete"
	seedSubscription(t, tenantId, submodel.PlanPremium, submodel.StatusActive)
	service := ruleservice.GetApprovalRuleService()

	rule, err := service.AddApprovalRule(tenantId, rulemodel.CreateRuleRequest{
		RuleName:  "Short lived",
		RuleType:  rulemodel.RuleTypeAmount,
		MaxAmount: floatPtr(10),
	})
	require.NoError(t, err)

	require.NoError(t, service.DeleteApprovalRule(tenantId, rule.RuleId))

	_, err = service.GetApprovalRule(tenantId, rule.RuleId)
	requireClientError(t, err, errors2.RULE_NOT_FOUND.Code, http.StatusNotFound)

	err = service.DeleteApprovalRule(tenantId, rule.RuleId)
	requireClientError(t, err, errors2.RULE_NOT_FOUND.Code, http.StatusNotFound)
}
