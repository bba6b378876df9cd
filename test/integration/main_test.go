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

package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/wso2/delivery-approval-service/internal/system/config"
	"github.com/wso2/delivery-approval-service/internal/system/database/provider"
	"github.com/wso2/delivery-approval-service/internal/system/log"
	"github.com/wso2/delivery-approval-service/internal/system/workers"
	"github.com/wso2/delivery-approval-service/test/setup"
)

var testPostgres *setup.TestPostgres

func TestMain(m *testing.M) {
	ctx := context.Background()
	os.Setenv("TEST_MODE", "true")

	conf := config.Config{
		Log: config.LogConfig{
			LogLevel: "ERROR",
		},
	}
	config.OverrideDASRuntime(conf)
	_ = log.Init("ERROR")

	pg, err := setup.SetupTestPostgres(ctx)
	if err != nil {
		fmt.Println("Failed to start test DB:", err)
		os.Exit(1)
	}
	testPostgres = pg

	workers.StartDecisionWorker()

	provider.SetTestDB(pg.DB)
	schemaPath := filepath.Join("..", "..", "dbscripts", "postgres.sql")
	if err := setup.CreateTablesFromFile(pg.DB, schemaPath); err != nil {
		fmt.Println("Failed to create tables from schema:", err)
		os.Exit(1)
	}

	code := m.Run()

	_ = pg.Container.Terminate(ctx)

	os.Exit(code)
}
