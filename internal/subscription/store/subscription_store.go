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

package store

import (
	"fmt"
	"strconv"

	"github.com/wso2/delivery-approval-service/internal/subscription/model"
	"github.com/wso2/delivery-approval-service/internal/system/database/provider"
	"github.com/wso2/delivery-approval-service/internal/system/database/scripts"
	errors2 "github.com/wso2/delivery-approval-service/internal/system/errors"
	"github.com/wso2/delivery-approval-service/internal/system/log"
)

// GetTenantSubscription fetches the subscription row of a tenant. Returns nil
// when the tenant has no subscription record.
func GetTenantSubscription(tenantId string) (*model.TenantSubscription, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for fetching subscription of tenant: %s", tenantId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	dbType := provider.NewDBProvider().GetDBType()
	results, err := dbClient.ExecuteQuery(scripts.GetTenantSubscription[dbType], tenantId)
	if err != nil {
		errorMsg := fmt.Sprintf("Error occurred while fetching subscription of tenant: %s", tenantId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_SUBSCRIPTION.Code,
			Message:     errors2.FETCH_SUBSCRIPTION.Message,
			Description: errorMsg,
		}, err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	row := results[0]
	sub := model.TenantSubscription{
		TenantId:  asString(row["tenant_id"]),
		Plan:      asString(row["plan"]),
		Status:    asString(row["status"]),
		CreatedAt: asInt64(row["created_at"]),
		UpdatedAt: asInt64(row["updated_at"]),
	}
	return &sub, nil
}

func asString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	}
	return ""
}

func asInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case []byte:
		parsed, _ := strconv.ParseInt(string(n), 10, 64)
		return parsed
	}
	return 0
}
