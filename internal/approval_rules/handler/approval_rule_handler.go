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

package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/wso2/delivery-approval-service/internal/approval_rules/model"
	"github.com/wso2/delivery-approval-service/internal/approval_rules/provider"
	errors2 "github.com/wso2/delivery-approval-service/internal/system/errors"
	"github.com/wso2/delivery-approval-service/internal/system/log"
	"github.com/wso2/delivery-approval-service/internal/system/pagination"
	"github.com/wso2/delivery-approval-service/internal/system/utils"
)

type ApprovalRulesHandler struct{}

func NewApprovalRulesHandler() *ApprovalRulesHandler {

	return &ApprovalRulesHandler{}
}

// AddApprovalRule handles POST /approval-rules
func (arh *ApprovalRulesHandler) AddApprovalRule(w http.ResponseWriter, r *http.Request) {

	tenantId := utils.ExtractTenantIdFromPath(r)

	var request model.CreateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.WriteErrorResponse(w, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.INVALID_REQUEST.Code,
			Message:     errors2.INVALID_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "approval rule"),
		}, http.StatusBadRequest))
		return
	}

	ruleProvider := provider.NewApprovalRuleProvider()
	ruleService := ruleProvider.GetApprovalRuleService()
	rule, err := ruleService.AddApprovalRule(tenantId, request)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	logger := log.GetLogger()
	logger.Info(fmt.Sprintf("Approval rule: %s of type: %s created successfully", rule.RuleId, rule.RuleType))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(rule)
}

// GetApprovalRules handles GET /approval-rules
func (arh *ApprovalRulesHandler) GetApprovalRules(w http.ResponseWriter, r *http.Request) {

	tenantId := utils.ExtractTenantIdFromPath(r)

	page, pageErr := pagination.ParsePage(r)
	limit, limitErr := pagination.ParseLimit(r)
	if pageErr != nil || limitErr != nil {
		utils.WriteErrorResponse(w, errors2.NewClientError(errors2.INVALID_PAGINATION, http.StatusBadRequest))
		return
	}

	var filter model.ListFilter
	if raw := r.URL.Query().Get("is_active"); raw != "" {
		isActive, err := strconv.ParseBool(raw)
		if err != nil {
			utils.WriteErrorResponse(w, errors2.NewClientError(errors2.ErrorMessage{
				Code:        errors2.INVALID_REQUEST.Code,
				Message:     errors2.INVALID_REQUEST.Message,
				Description: "Query parameter 'is_active' must be a boolean.",
			}, http.StatusBadRequest))
			return
		}
		filter.IsActive = &isActive
	}

	ruleProvider := provider.NewApprovalRuleProvider()
	ruleService := ruleProvider.GetApprovalRuleService()
	response, err := ruleService.GetApprovalRules(tenantId, filter, page, limit)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}

// GetApprovalRule handles GET /approval-rules/:rule_id
func (arh *ApprovalRulesHandler) GetApprovalRule(w http.ResponseWriter, r *http.Request) {

	tenantId := utils.ExtractTenantIdFromPath(r)
	ruleId := extractRuleId(r)
	if ruleId == "" {
		http.Error(w, "rule id is required", http.StatusBadRequest)
		return
	}

	ruleProvider := provider.NewApprovalRuleProvider()
	ruleService := ruleProvider.GetApprovalRuleService()
	rule, err := ruleService.GetApprovalRule(tenantId, ruleId)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(rule)
}

// PatchApprovalRule handles PATCH /approval-rules/:rule_id
func (arh *ApprovalRulesHandler) PatchApprovalRule(w http.ResponseWriter, r *http.Request) {

	tenantId := utils.ExtractTenantIdFromPath(r)
	ruleId := extractRuleId(r)
	if ruleId == "" {
		http.Error(w, "rule id is required", http.StatusBadRequest)
		return
	}

	var updates map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		utils.WriteErrorResponse(w, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.INVALID_REQUEST.Code,
			Message:     errors2.INVALID_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "approval rule"),
		}, http.StatusBadRequest))
		return
	}

	ruleProvider := provider.NewApprovalRuleProvider()
	ruleService := ruleProvider.GetApprovalRuleService()
	rule, err := ruleService.PatchApprovalRule(tenantId, ruleId, updates)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	logger := log.GetLogger()
	logger.Info(fmt.Sprintf("Approval rule: %s updated successfully.", ruleId))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(rule)
}

// SetApprovalRuleStatus handles PUT /approval-rules/:rule_id/status
func (arh *ApprovalRulesHandler) SetApprovalRuleStatus(w http.ResponseWriter, r *http.Request) {

	tenantId := utils.ExtractTenantIdFromPath(r)
	path := strings.TrimSuffix(r.URL.Path, "/")
	path = strings.TrimSuffix(path, "/status")
	ruleId := path[strings.LastIndex(path, "/")+1:]
	if ruleId == "" {
		http.Error(w, "rule id is required", http.StatusBadRequest)
		return
	}

	var request model.StatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.WriteErrorResponse(w, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.INVALID_REQUEST.Code,
			Message:     errors2.INVALID_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "approval rule status"),
		}, http.StatusBadRequest))
		return
	}

	ruleProvider := provider.NewApprovalRuleProvider()
	ruleService := ruleProvider.GetApprovalRuleService()
	rule, err := ruleService.SetApprovalRuleStatus(tenantId, ruleId, request.IsActive)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	logger := log.GetLogger()
	logger.Info(fmt.Sprintf("Approval rule: %s status set to active=%t", ruleId, request.IsActive))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(rule)
}

// DeleteApprovalRule handles DELETE /approval-rules/:rule_id
func (arh *ApprovalRulesHandler) DeleteApprovalRule(w http.ResponseWriter, r *http.Request) {

	tenantId := utils.ExtractTenantIdFromPath(r)
	ruleId := extractRuleId(r)
	if ruleId == "" {
		http.Error(w, "rule id is required", http.StatusBadRequest)
		return
	}

	ruleProvider := provider.NewApprovalRuleProvider()
	ruleService := ruleProvider.GetApprovalRuleService()
	if err := ruleService.DeleteApprovalRule(tenantId, ruleId); err != nil {
		utils.HandleError(w, err)
		return
	}

	logger := log.GetLogger()
	logger.Info(fmt.Sprintf("Approval rule: %s deleted successfully.", ruleId))
	w.WriteHeader(http.StatusNoContent)
}

func extractRuleId(r *http.Request) string {
	path := strings.TrimSuffix(r.URL.Path, "/")
	parts := strings.Split(path, "/")
	if len(parts) < 3 {
		return ""
	}
	return parts[len(parts)-1]
}
