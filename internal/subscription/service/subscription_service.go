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
	"time"

	"github.com/wso2/delivery-approval-service/internal/subscription/model"
	"github.com/wso2/delivery-approval-service/internal/subscription/store"
	"github.com/wso2/delivery-approval-service/internal/system/cache"
)

// SubscriptionServiceInterface exposes tenant subscription lookups.
type SubscriptionServiceInterface interface {
	GetSubscription(tenantId string) (*model.TenantSubscription, error)
}

// SubscriptionService resolves subscriptions with a short TTL cache; quota
// checks hit this on every rule creation.
type SubscriptionService struct {
	cache *cache.Cache
}

var subscriptionCache = cache.NewCache(30 * time.Second)

// GetSubscriptionService creates a new instance of SubscriptionService.
func GetSubscriptionService() SubscriptionServiceInterface {

	return &SubscriptionService{
		cache: subscriptionCache,
	}
}

// GetSubscription fetches the subscription of a tenant, nil when the tenant
// has none.
func (ss *SubscriptionService) GetSubscription(tenantId string) (*model.TenantSubscription, error) {

	if cached, found := ss.cache.Get(tenantId); found {
		if sub, ok := cached.(*model.TenantSubscription); ok {
			return sub, nil
		}
	}

	sub, err := store.GetTenantSubscription(tenantId)
	if err != nil {
		return nil, err
	}
	if sub != nil {
		ss.cache.Set(tenantId, sub)
	}
	return sub, nil
}
