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

package workers

import (
	"github.com/wso2/delivery-approval-service/internal/evaluation/model"
	"github.com/wso2/delivery-approval-service/internal/evaluation/store"
	"github.com/wso2/delivery-approval-service/internal/system/constants"
	"github.com/wso2/delivery-approval-service/internal/system/log"
)

var decisionQueue chan model.DecisionRecord

// StartDecisionWorker starts the background goroutine that drains the
// decision audit queue into the audit store.
func StartDecisionWorker() {

	decisionQueue = make(chan model.DecisionRecord, constants.DefaultQueueSize)

	go func() {
		for record := range decisionQueue {
			persistDecision(record)
		}
	}()
}

// EnqueueDecision hands a decision record to the audit worker. Drops the
// record when the queue is full or the worker was never started; auditing
// must not block evaluation.
func EnqueueDecision(record model.DecisionRecord) {
	if decisionQueue == nil {
		return
	}
	select {
	case decisionQueue <- record:
	default:
		log.GetLogger().Warn("Decision audit queue full, dropping record",
			log.String("tenant_id", record.TenantId))
	}
}

func persistDecision(record model.DecisionRecord) {

	logger := log.GetLogger()
	auditStore, err := store.GetDecisionAuditStore()
	if err != nil {
		logger.Error("Failed to initialize decision audit store", log.Error(err))
		return
	}
	if auditStore == nil {
		// Audit store disabled.
		return
	}
	if err := auditStore.AddDecisionRecord(record); err != nil {
		logger.Error("Failed to persist decision audit record",
			log.String("tenant_id", record.TenantId), log.Error(err))
	}
}
