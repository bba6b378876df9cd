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
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/wso2/delivery-approval-service/internal/approval_rules/model"
	"github.com/wso2/delivery-approval-service/internal/approval_rules/store"
	submodel "github.com/wso2/delivery-approval-service/internal/subscription/model"
	subservice "github.com/wso2/delivery-approval-service/internal/subscription/service"
	errors2 "github.com/wso2/delivery-approval-service/internal/system/errors"
	"github.com/wso2/delivery-approval-service/internal/system/metrics"
	"github.com/wso2/delivery-approval-service/internal/system/pagination"
)

// timeOfDayPattern matches zero-padded 24-hour "HH:MM" strings. Lexicographic
// comparison on this format is equivalent to numeric comparison.
var timeOfDayPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ApprovalRuleServiceInterface defines the rule store operations.
type ApprovalRuleServiceInterface interface {
	AddApprovalRule(tenantId string, request model.CreateRuleRequest) (*model.ApprovalRule, error)
	GetApprovalRules(tenantId string, filter model.ListFilter, page, limit int) (*model.RuleListResponse, error)
	GetApprovalRule(tenantId, ruleId string) (*model.ApprovalRule, error)
	PatchApprovalRule(tenantId, ruleId string, updates map[string]interface{}) (*model.ApprovalRule, error)
	SetApprovalRuleStatus(tenantId, ruleId string, isActive bool) (*model.ApprovalRule, error)
	DeleteApprovalRule(tenantId, ruleId string) error
}

// ApprovalRuleService is the default implementation of the ApprovalRuleServiceInterface.
type ApprovalRuleService struct {
	subscriptions subservice.SubscriptionServiceInterface
}

// GetApprovalRuleService creates a new instance of ApprovalRuleService.
func GetApprovalRuleService() ApprovalRuleServiceInterface {

	return &ApprovalRuleService{
		subscriptions: subservice.GetSubscriptionService(),
	}
}

// AddApprovalRule creates a new rule for the tenant. The tenant must hold an
// active or trial subscription, stay within its plan's active-rule cap, and
// the payload must satisfy the declared rule type's condition requirements.
func (ars *ApprovalRuleService) AddApprovalRule(tenantId string, request model.CreateRuleRequest) (*model.ApprovalRule, error) {

	sub, err := ars.subscriptions.GetSubscription(tenantId)
	if err != nil {
		return nil, err
	}
	if sub == nil || !sub.IsPayable() {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.NO_ACTIVE_SUBSCRIPTION.Code,
			Message:     errors2.NO_ACTIVE_SUBSCRIPTION.Message,
			Description: "An active or trial subscription is required to create auto-approval rules.",
		}, http.StatusForbidden)
	}

	if validationErr := validateCreateRequest(&request); validationErr != nil {
		return nil, validationErr
	}

	now := time.Now().UTC().Unix()
	rule := model.ApprovalRule{
		RuleId:         uuid.New().String(),
		TenantId:       tenantId,
		RuleName:       request.RuleName,
		Description:    request.Description,
		RuleType:       request.RuleType,
		Priority:       1,
		IsActive:       true,
		CustomerPhones: request.CustomerPhones,
		ProductIds:     request.ProductIds,
		MinAmount:      request.MinAmount,
		MaxAmount:      request.MaxAmount,
		AllowedDays:    request.AllowedDays,
		StartTime:      request.StartTime,
		EndTime:        request.EndTime,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if request.Priority != nil {
		rule.Priority = *request.Priority
	}
	if request.IsActive != nil {
		rule.IsActive = *request.IsActive
	}

	limit := submodel.RuleLimit(sub.Plan)
	if err := store.AddApprovalRule(rule, limit); err != nil {
		if errors.Is(err, store.ErrTierLimitReached) {
			return nil, tierLimitError(sub.Plan, limit)
		}
		return nil, err
	}

	metrics.GetCollector().RecordRuleCreated()
	return &rule, nil
}

// GetApprovalRules returns one page of the tenant's rules together with tier
// usage. RulesUsed counts all rules matching the filter, not just active ones.
func (ars *ApprovalRuleService) GetApprovalRules(tenantId string, filter model.ListFilter, page, limit int) (*model.RuleListResponse, error) {

	total, err := store.CountApprovalRules(tenantId, filter)
	if err != nil {
		return nil, err
	}

	pageInfo := pagination.New(page, limit, total)
	rules, err := store.GetApprovalRules(tenantId, filter, limit, pageInfo.Offset())
	if err != nil {
		return nil, err
	}
	if rules == nil {
		rules = []model.ApprovalRule{}
	}

	tier := model.TierInfo{Plan: "NONE", RulesUsed: total, RulesLimit: 0}
	sub, err := ars.subscriptions.GetSubscription(tenantId)
	if err != nil {
		return nil, err
	}
	if sub != nil {
		tier.Plan = sub.Plan
		tier.RulesLimit = submodel.RuleLimit(sub.Plan)
	}

	return &model.RuleListResponse{
		Rules:      rules,
		Pagination: pageInfo,
		Tier:       tier,
	}, nil
}

// GetApprovalRule fetches a single rule scoped to the tenant.
func (ars *ApprovalRuleService) GetApprovalRule(tenantId, ruleId string) (*model.ApprovalRule, error) {

	rule, err := store.GetApprovalRuleById(tenantId, ruleId)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, ruleNotFoundError()
	}
	return rule, nil
}

// allowedPatchFields is the set of fields a PATCH may touch. The rule type is
// immutable; the active flag has its own endpoint.
var allowedPatchFields = map[string]bool{
	"rule_name":       true,
	"description":     true,
	"priority":        true,
	"customer_phones": true,
	"product_ids":     true,
	"min_amount":      true,
	"max_amount":      true,
	"allowed_days":    true,
	"start_time":      true,
	"end_time":        true,
}

// PatchApprovalRule applies a partial update. Per-type condition minimums are
// not re-validated here; an operator can leave a rule without evaluable
// conditions, in which case it simply stops matching.
func (ars *ApprovalRuleService) PatchApprovalRule(tenantId, ruleId string, updates map[string]interface{}) (*model.ApprovalRule, error) {

	for field := range updates {
		if !allowedPatchFields[field] {
			return nil, errors2.NewClientError(errors2.ErrorMessage{
				Code:        errors2.RULE_FIELD_NOT_UPDATABLE.Code,
				Message:     errors2.RULE_FIELD_NOT_UPDATABLE.Message,
				Description: fmt.Sprintf("Field '%s' cannot be updated.", field),
			}, http.StatusBadRequest)
		}
	}

	rule, err := store.GetApprovalRuleById(tenantId, ruleId)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, ruleNotFoundError()
	}

	if err := applyPatch(rule, updates); err != nil {
		return nil, err
	}
	rule.UpdatedAt = time.Now().UTC().Unix()

	updated, err := store.UpdateApprovalRule(*rule)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ruleNotFoundError()
	}
	return rule, nil
}

// SetApprovalRuleStatus toggles the active flag. Activating re-checks the
// tier quota so a downgraded tenant cannot toggle itself above the new cap.
func (ars *ApprovalRuleService) SetApprovalRuleStatus(tenantId, ruleId string, isActive bool) (*model.ApprovalRule, error) {

	limit := submodel.UnlimitedRules
	plan := ""
	if isActive {
		sub, err := ars.subscriptions.GetSubscription(tenantId)
		if err != nil {
			return nil, err
		}
		if sub != nil {
			plan = sub.Plan
			limit = submodel.RuleLimit(sub.Plan)
		}
	}

	updated, err := store.SetApprovalRuleStatus(tenantId, ruleId, isActive, limit, time.Now().UTC().Unix())
	if err != nil {
		if errors.Is(err, store.ErrTierLimitReached) {
			return nil, tierLimitError(plan, limit)
		}
		return nil, err
	}
	if !updated {
		return nil, ruleNotFoundError()
	}

	return store.GetApprovalRuleById(tenantId, ruleId)
}

// DeleteApprovalRule removes a rule permanently.
func (ars *ApprovalRuleService) DeleteApprovalRule(tenantId, ruleId string) error {

	deleted, err := store.DeleteApprovalRule(tenantId, ruleId)
	if err != nil {
		return err
	}
	if !deleted {
		return ruleNotFoundError()
	}
	metrics.GetCollector().RecordRuleDeleted()
	return nil
}

// validateCreateRequest enforces the per-type condition requirements at
// creation time.
func validateCreateRequest(request *model.CreateRuleRequest) error {

	if request.RuleName == "" {
		return validationError("Rule name must not be empty.")
	}
	if !model.AllowedRuleTypes[request.RuleType] {
		return errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.INVALID_RULE_TYPE.Code,
			Message:     errors2.INVALID_RULE_TYPE.Message,
			Description: fmt.Sprintf("'%s' is not a supported rule type.", request.RuleType),
		}, http.StatusBadRequest)
	}
	if request.Priority != nil && *request.Priority <= 0 {
		return validationError("Priority must be a positive integer.")
	}

	switch request.RuleType {
	case model.RuleTypeCustomer:
		if len(request.CustomerPhones) == 0 {
			return validationError("CUSTOMER rules require at least one customer phone number.")
		}
	case model.RuleTypeProduct:
		if len(request.ProductIds) == 0 {
			return validationError("PRODUCT rules require at least one product id.")
		}
	case model.RuleTypeAmount:
		if request.MinAmount == nil && request.MaxAmount == nil {
			return validationError("AMOUNT rules require a minimum amount, a maximum amount, or both.")
		}
	case model.RuleTypeTime:
		if len(request.AllowedDays) == 0 || request.StartTime == "" || request.EndTime == "" {
			return validationError("TIME rules require allowed days, a start time and an end time.")
		}
	case model.RuleTypeCombined:
		// Conditions are a-la-carte; each present condition group is
		// validated below.
	}

	for _, day := range request.AllowedDays {
		if !model.AllowedWeekdayCodes[day] {
			return validationError(fmt.Sprintf("'%s' is not a valid weekday code.", day))
		}
	}
	if request.StartTime != "" && !timeOfDayPattern.MatchString(request.StartTime) {
		return validationError("Start time must be a zero-padded 24-hour HH:MM string.")
	}
	if request.EndTime != "" && !timeOfDayPattern.MatchString(request.EndTime) {
		return validationError("End time must be a zero-padded 24-hour HH:MM string.")
	}

	return nil
}

// applyPatch copies the permitted updates onto the rule, coercing the JSON
// types. A null value clears the field.
func applyPatch(rule *model.ApprovalRule, updates map[string]interface{}) error {

	for field, value := range updates {
		switch field {
		case "rule_name":
			s, ok := value.(string)
			if !ok || s == "" {
				return validationError("Rule name must be a non-empty string.")
			}
			rule.RuleName = s
		case "description":
			rule.Description, _ = value.(string)
		case "priority":
			f, ok := value.(float64)
			if !ok || f <= 0 || f != float64(int(f)) {
				return validationError("Priority must be a positive integer.")
			}
			rule.Priority = int(f)
		case "customer_phones":
			values, err := toStringSlice(value, field)
			if err != nil {
				return err
			}
			rule.CustomerPhones = values
		case "product_ids":
			values, err := toStringSlice(value, field)
			if err != nil {
				return err
			}
			rule.ProductIds = values
		case "allowed_days":
			values, err := toStringSlice(value, field)
			if err != nil {
				return err
			}
			for _, day := range values {
				if !model.AllowedWeekdayCodes[day] {
					return validationError(fmt.Sprintf("'%s' is not a valid weekday code.", day))
				}
			}
			rule.AllowedDays = values
		case "min_amount":
			amount, err := toFloatPtr(value, field)
			if err != nil {
				return err
			}
			rule.MinAmount = amount
		case "max_amount":
			amount, err := toFloatPtr(value, field)
			if err != nil {
				return err
			}
			rule.MaxAmount = amount
		case "start_time":
			s, _ := value.(string)
			if s != "" && !timeOfDayPattern.MatchString(s) {
				return validationError("Start time must be a zero-padded 24-hour HH:MM string.")
			}
			rule.StartTime = s
		case "end_time":
			s, _ := value.(string)
			if s != "" && !timeOfDayPattern.MatchString(s) {
				return validationError("End time must be a zero-padded 24-hour HH:MM string.")
			}
			rule.EndTime = s
		}
	}
	return nil
}

func toStringSlice(value interface{}, field string) ([]string, error) {
	if value == nil {
		return nil, nil
	}
	raw, ok := value.([]interface{})
	if !ok {
		return nil, validationError(fmt.Sprintf("Field '%s' must be an array of strings.", field))
	}
	values := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, validationError(fmt.Sprintf("Field '%s' must be an array of strings.", field))
		}
		values = append(values, s)
	}
	return values, nil
}

func toFloatPtr(value interface{}, field string) (*float64, error) {
	if value == nil {
		return nil, nil
	}
	f, ok := value.(float64)
	if !ok {
		return nil, validationError(fmt.Sprintf("Field '%s' must be a number.", field))
	}
	return &f, nil
}

func validationError(description string) error {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.RULE_VALIDATION.Code,
		Message:     errors2.RULE_VALIDATION.Message,
		Description: description,
	}, http.StatusBadRequest)
}

func ruleNotFoundError() error {
	return errors2.NewClientError(errors2.RULE_NOT_FOUND, http.StatusNotFound)
}

func tierLimitError(plan string, limit int) error {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.TIER_LIMIT_REACHED.Code,
		Message:     errors2.TIER_LIMIT_REACHED.Message,
		Description: fmt.Sprintf("The %s plan allows at most %d active auto-approval rules.", plan, limit),
	}, http.StatusForbidden)
}
