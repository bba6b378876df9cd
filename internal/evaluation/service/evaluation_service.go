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
	"context"
	"fmt"
	"time"

	rulemodel "github.com/wso2/delivery-approval-service/internal/approval_rules/model"
	rulestore "github.com/wso2/delivery-approval-service/internal/approval_rules/store"
	"github.com/wso2/delivery-approval-service/internal/evaluation/model"
	evalstore "github.com/wso2/delivery-approval-service/internal/evaluation/store"
	syscontext "github.com/wso2/delivery-approval-service/internal/system/context"
	"github.com/wso2/delivery-approval-service/internal/system/log"
	"github.com/wso2/delivery-approval-service/internal/system/metrics"
	"github.com/wso2/delivery-approval-service/internal/system/workers"
)

// Reasons reported for negative evaluation outcomes. A negative outcome is a
// successful result, not an error.
const (
	ReasonNoActiveRules  = "No active auto-approval rules"
	ReasonNoRulesMatched = "No rules matched"
)

// weekdayCodes maps time.Weekday to the three-letter codes used in rule
// conditions.
var weekdayCodes = map[time.Weekday]string{
	time.Sunday:    "SUN",
	time.Monday:    "MON",
	time.Tuesday:   "TUE",
	time.Wednesday: "WED",
	time.Thursday:  "THU",
	time.Friday:    "FRI",
	time.Saturday:  "SAT",
}

// EvaluationServiceInterface decides whether incoming delivery requests
// bypass manual review.
type EvaluationServiceInterface interface {
	Evaluate(ctx context.Context, tenantId string, request model.DeliveryRequest) (*model.EvaluationResult, error)
	GetDecisionHistory(tenantId string, limit int) ([]model.DecisionRecord, error)
}

// EvaluationService is the default implementation of the EvaluationServiceInterface.
type EvaluationService struct{}

// GetEvaluationService creates a new instance of EvaluationService.
func GetEvaluationService() EvaluationServiceInterface {

	return &EvaluationService{}
}

// Evaluate loads the tenant's active rules in priority order and returns the
// first match. Storage failures propagate; absence of a match does not.
func (es *EvaluationService) Evaluate(ctx context.Context, tenantId string, request model.DeliveryRequest) (*model.EvaluationResult, error) {

	started := time.Now()
	rules, err := rulestore.GetActiveApprovalRules(tenantId)
	if err != nil {
		return nil, err
	}

	result := EvaluateAgainstRules(rules, request, time.Now())

	metrics.GetCollector().RecordEvaluation(result.ShouldAutoApprove, time.Since(started).Seconds())

	logger := log.GetLogger()
	logger.Debug(fmt.Sprintf("Evaluated delivery request for tenant: %s", tenantId),
		log.Any("should_auto_approve", result.ShouldAutoApprove),
		log.String("reason", result.Reason))

	record := buildDecisionRecord(tenantId, request, result)
	record.TraceId = syscontext.GetTraceID(ctx)
	workers.EnqueueDecision(record)

	return &result, nil
}

// GetDecisionHistory returns a tenant's most recent evaluation decisions,
// newest first. Returns an empty list when the audit store is disabled.
func (es *EvaluationService) GetDecisionHistory(tenantId string, limit int) ([]model.DecisionRecord, error) {

	auditStore, err := evalstore.GetDecisionAuditStore()
	if err != nil {
		return nil, err
	}
	if auditStore == nil {
		return []model.DecisionRecord{}, nil
	}

	records, err := auditStore.GetDecisionRecords(tenantId, int64(limit))
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []model.DecisionRecord{}
	}
	return records, nil
}

// EvaluateAgainstRules is the pure evaluation core: deterministic for
// identical inputs, no side effects. Rules must already be in evaluation
// order (priority ascending, earliest created first).
func EvaluateAgainstRules(rules []rulemodel.ApprovalRule, request model.DeliveryRequest, now time.Time) model.EvaluationResult {

	if len(rules) == 0 {
		return model.EvaluationResult{
			ShouldAutoApprove: false,
			MatchedRule:       nil,
			Reason:            ReasonNoActiveRules,
		}
	}

	requestTime := now
	if request.RequestTime != nil {
		requestTime = *request.RequestTime
	}
	currentDay := weekdayCodes[requestTime.Weekday()]
	currentTime := requestTime.Format("15:04")

	for i := range rules {
		rule := &rules[i]
		if matchesRule(rule, request, currentDay, currentTime) {
			return model.EvaluationResult{
				ShouldAutoApprove: true,
				MatchedRule:       rule,
				Reason:            fmt.Sprintf("Matched rule: %s", rule.RuleName),
			}
		}
	}

	return model.EvaluationResult{
		ShouldAutoApprove: false,
		MatchedRule:       nil,
		Reason:            ReasonNoRulesMatched,
	}
}

// matchesRule dispatches on the rule type. Unknown types never match.
func matchesRule(rule *rulemodel.ApprovalRule, request model.DeliveryRequest, currentDay, currentTime string) bool {

	switch rule.RuleType {
	case rulemodel.RuleTypeCustomer:
		return matchesCustomer(rule, request)
	case rulemodel.RuleTypeProduct:
		return matchesProduct(rule, request)
	case rulemodel.RuleTypeAmount:
		return matchesAmount(rule, request)
	case rulemodel.RuleTypeTime:
		return matchesTimeWindow(rule, currentDay, currentTime)
	case rulemodel.RuleTypeCombined:
		return matchesCombined(rule, request, currentDay, currentTime)
	default:
		return false
	}
}

// matchesCustomer checks membership of the request's customer phone in the
// rule's whitelist.
func matchesCustomer(rule *rulemodel.ApprovalRule, request model.DeliveryRequest) bool {
	for _, phone := range rule.CustomerPhones {
		if phone == request.CustomerPhone {
			return true
		}
	}
	return false
}

// matchesProduct checks whether any requested product is whitelisted.
func matchesProduct(rule *rulemodel.ApprovalRule, request model.DeliveryRequest) bool {
	whitelisted := make(map[string]bool, len(rule.ProductIds))
	for _, id := range rule.ProductIds {
		whitelisted[id] = true
	}
	for _, id := range request.ProductIds {
		if whitelisted[id] {
			return true
		}
	}
	return false
}

// matchesAmount checks the inclusive amount bounds. A rule with neither bound
// matches everything.
func matchesAmount(rule *rulemodel.ApprovalRule, request model.DeliveryRequest) bool {
	if rule.MinAmount != nil && request.TotalAmount < *rule.MinAmount {
		return false
	}
	if rule.MaxAmount != nil && request.TotalAmount > *rule.MaxAmount {
		return false
	}
	return true
}

// matchesTimeWindow checks the weekday set and the inclusive HH:MM window.
// Lexicographic comparison on zero-padded HH:MM equals numeric comparison. A
// rule missing any part of the window never matches.
func matchesTimeWindow(rule *rulemodel.ApprovalRule, currentDay, currentTime string) bool {
	if !rule.HasTimeCondition() {
		return false
	}
	dayAllowed := false
	for _, day := range rule.AllowedDays {
		if day == currentDay {
			dayAllowed = true
			break
		}
	}
	if !dayAllowed {
		return false
	}
	return rule.StartTime <= currentTime && currentTime <= rule.EndTime
}

// matchesCombined ANDs every condition group present on the rule. A rule with
// no present conditions never matches.
func matchesCombined(rule *rulemodel.ApprovalRule, request model.DeliveryRequest, currentDay, currentTime string) bool {

	evaluated := false

	if rule.HasCustomerCondition() {
		evaluated = true
		if !matchesCustomer(rule, request) {
			return false
		}
	}
	if rule.HasProductCondition() {
		evaluated = true
		if !matchesProduct(rule, request) {
			return false
		}
	}
	if rule.HasAmountCondition() {
		evaluated = true
		if !matchesAmount(rule, request) {
			return false
		}
	}
	if rule.HasTimeCondition() {
		evaluated = true
		if !matchesTimeWindow(rule, currentDay, currentTime) {
			return false
		}
	}

	return evaluated
}

// buildDecisionRecord summarizes an evaluation for the audit trail.
func buildDecisionRecord(tenantId string, request model.DeliveryRequest, result model.EvaluationResult) model.DecisionRecord {

	record := model.DecisionRecord{
		TenantId:          tenantId,
		CustomerPhone:     request.CustomerPhone,
		ProductIds:        request.ProductIds,
		TotalAmount:       request.TotalAmount,
		EvaluatedAt:       time.Now().UTC().Unix(),
		ShouldAutoApprove: result.ShouldAutoApprove,
		Reason:            result.Reason,
	}
	if result.MatchedRule != nil {
		record.MatchedRuleId = result.MatchedRule.RuleId
		record.MatchedRuleName = result.MatchedRule.RuleName
	}
	return record
}
