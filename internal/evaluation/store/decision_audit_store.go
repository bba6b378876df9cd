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
	"context"
	"sync"
	"time"

	"github.com/wso2/delivery-approval-service/internal/evaluation/model"
	"github.com/wso2/delivery-approval-service/internal/system/config"
	errors2 "github.com/wso2/delivery-approval-service/internal/system/errors"
	"github.com/wso2/delivery-approval-service/internal/system/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DecisionAuditStore persists evaluation decision records to MongoDB. Writes
// are best-effort; a failed write must never affect the evaluation result.
type DecisionAuditStore struct {
	collection *mongo.Collection
}

var (
	auditStore    *DecisionAuditStore
	auditStoreErr error
	once          sync.Once
)

// GetDecisionAuditStore connects to the configured MongoDB collection on
// first use. Returns nil with no error when the audit store is disabled.
func GetDecisionAuditStore() (*DecisionAuditStore, error) {

	cfg := config.GetDASRuntime().Config.AuditStore
	if !cfg.Enabled {
		return nil, nil
	}

	once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
		if err != nil {
			auditStoreErr = errors2.NewServerError(errors2.AUDIT_WRITE, err)
			return
		}
		auditStore = &DecisionAuditStore{
			collection: mongoClient.Database(cfg.Database).Collection(cfg.Collection),
		}
	})
	return auditStore, auditStoreErr
}

// AddDecisionRecord inserts an evaluation decision record.
func (das *DecisionAuditStore) AddDecisionRecord(record model.DecisionRecord) error {

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := das.collection.InsertOne(ctx, record)
	if err != nil {
		return errors2.NewServerError(errors2.AUDIT_WRITE, err)
	}
	return nil
}

// GetDecisionRecords retrieves the most recent decision records of a tenant,
// newest first.
func (das *DecisionAuditStore) GetDecisionRecords(tenantId string, limit int64) ([]model.DecisionRecord, error) {

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"evaluated_at": -1}).SetLimit(limit)
	cursor, err := das.collection.Find(ctx, bson.M{"tenant_id": tenantId}, opts)
	if err != nil {
		return nil, errors2.NewServerError(errors2.AUDIT_WRITE, err)
	}
	defer func(cursor *mongo.Cursor, ctx context.Context) {
		if err := cursor.Close(ctx); err != nil {
			log.GetLogger().Debug("Error occurred while closing cursor.", log.Error(err))
		}
	}(cursor, ctx)

	var records []model.DecisionRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, errors2.NewServerError(errors2.AUDIT_WRITE, err)
	}
	return records, nil
}
