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
	"github.com/wso2/delivery-approval-service/internal/evaluation/service"
)

// EvaluationProviderInterface defines the interface for the evaluation provider.
type EvaluationProviderInterface interface {
	GetEvaluationService() service.EvaluationServiceInterface
}

// EvaluationProvider is the default implementation of the EvaluationProviderInterface.
type EvaluationProvider struct{}

// NewEvaluationProvider creates a new instance of EvaluationProvider.
func NewEvaluationProvider() EvaluationProviderInterface {

	return &EvaluationProvider{}
}

// GetEvaluationService returns the evaluation service instance.
func (ep *EvaluationProvider) GetEvaluationService() service.EvaluationServiceInterface {

	return service.GetEvaluationService()
}
