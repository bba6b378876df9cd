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

package services

import (
	"net/http"
	"strings"

	rulehandler "github.com/wso2/delivery-approval-service/internal/approval_rules/handler"
	evalhandler "github.com/wso2/delivery-approval-service/internal/evaluation/handler"
	"github.com/wso2/delivery-approval-service/internal/system/authn"
	"github.com/wso2/delivery-approval-service/internal/system/utils"
)

type ApprovalRulesService struct {
	approvalRulesHandler *rulehandler.ApprovalRulesHandler
	evaluationHandler    *evalhandler.EvaluationHandler
}

func NewApprovalRulesService() *ApprovalRulesService {
	return &ApprovalRulesService{
		approvalRulesHandler: rulehandler.NewApprovalRulesHandler(),
		evaluationHandler:    evalhandler.NewEvaluationHandler(),
	}
}

// Route handles all tenant-aware approval rules endpoints
func (s *ApprovalRulesService) Route(w http.ResponseWriter, r *http.Request) {

	tenantId := utils.ExtractTenantIdFromPath(r)
	if err := authn.ValidateRequest(r, tenantId); err != nil {
		utils.HandleError(w, err)
		return
	}

	path := strings.TrimSuffix(r.URL.Path, "/")
	method := r.Method

	switch {
	case method == http.MethodPost && path == "/approval-rules/evaluate":
		s.evaluationHandler.EvaluateDeliveryRequest(w, r)

	case method == http.MethodGet && path == "/approval-rules/decisions":
		s.evaluationHandler.GetDecisionHistory(w, r)

	case method == http.MethodPost && path == "/approval-rules":
		s.approvalRulesHandler.AddApprovalRule(w, r)

	case method == http.MethodGet && path == "/approval-rules":
		s.approvalRulesHandler.GetApprovalRules(w, r)

	case method == http.MethodPut && strings.HasPrefix(path, "/approval-rules/") && strings.HasSuffix(path, "/status"):
		s.approvalRulesHandler.SetApprovalRuleStatus(w, r)

	case method == http.MethodGet && strings.HasPrefix(path, "/approval-rules/"):
		s.approvalRulesHandler.GetApprovalRule(w, r)

	case method == http.MethodPatch && strings.HasPrefix(path, "/approval-rules/"):
		s.approvalRulesHandler.PatchApprovalRule(w, r)

	case method == http.MethodDelete && strings.HasPrefix(path, "/approval-rules/"):
		s.approvalRulesHandler.DeleteApprovalRule(w, r)

	default:
		http.NotFound(w, r)
	}
}
