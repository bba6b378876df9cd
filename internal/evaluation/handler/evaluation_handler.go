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

	"github.com/wso2/delivery-approval-service/internal/evaluation/model"
	"github.com/wso2/delivery-approval-service/internal/evaluation/provider"
	syscontext "github.com/wso2/delivery-approval-service/internal/system/context"
	errors2 "github.com/wso2/delivery-approval-service/internal/system/errors"
	"github.com/wso2/delivery-approval-service/internal/system/log"
	"github.com/wso2/delivery-approval-service/internal/system/pagination"
	"github.com/wso2/delivery-approval-service/internal/system/utils"
)

type EvaluationHandler struct{}

func NewEvaluationHandler() *EvaluationHandler {

	return &EvaluationHandler{}
}

// EvaluateDeliveryRequest handles POST /approval-rules/evaluate
func (eh *EvaluationHandler) EvaluateDeliveryRequest(w http.ResponseWriter, r *http.Request) {

	tenantId := utils.ExtractTenantIdFromPath(r)

	var request model.DeliveryRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.WriteErrorResponse(w, errors2.NewClientErrorWithTraceID(errors2.ErrorMessage{
			Code:        errors2.INVALID_REQUEST.Code,
			Message:     errors2.INVALID_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "delivery request"),
		}, http.StatusBadRequest, syscontext.GetTraceID(r.Context())))
		return
	}

	evaluationProvider := provider.NewEvaluationProvider()
	evaluationService := evaluationProvider.GetEvaluationService()
	result, err := evaluationService.Evaluate(r.Context(), tenantId, request)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	logger := log.GetLogger()
	logger.Info(fmt.Sprintf("Delivery request evaluated for tenant: %s, auto-approve: %t",
		tenantId, result.ShouldAutoApprove))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(result)
}

// GetDecisionHistory handles GET /approval-rules/decisions
func (eh *EvaluationHandler) GetDecisionHistory(w http.ResponseWriter, r *http.Request) {

	tenantId := utils.ExtractTenantIdFromPath(r)

	limit, err := pagination.ParseLimit(r)
	if err != nil {
		utils.WriteErrorResponse(w, errors2.NewClientError(errors2.INVALID_PAGINATION, http.StatusBadRequest))
		return
	}

	evaluationProvider := provider.NewEvaluationProvider()
	evaluationService := evaluationProvider.GetEvaluationService()
	records, err := evaluationService.GetDecisionHistory(tenantId, limit)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(records)
}
