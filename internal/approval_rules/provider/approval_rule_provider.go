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

package provider

import (
	"github.com/wso2/delivery-approval-service/internal/approval_rules/service"
)

// ApprovalRuleProviderInterface defines the interface for the approval rule provider.
type ApprovalRuleProviderInterface interface {
	GetApprovalRuleService() service.ApprovalRuleServiceInterface
}

// ApprovalRuleProvider is the default implementation of the ApprovalRuleProviderInterface.
type ApprovalRuleProvider struct{}

// NewApprovalRuleProvider creates a new instance of ApprovalRuleProvider.
func NewApprovalRuleProvider() ApprovalRuleProviderInterface {

	return &ApprovalRuleProvider{}
}

// GetApprovalRuleService returns the approval rule service instance.
func (ap *ApprovalRuleProvider) GetApprovalRuleService() service.ApprovalRuleServiceInterface {

	return service.GetApprovalRuleService()
}
