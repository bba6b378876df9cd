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
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/wso2/delivery-approval-service/internal/approval_rules/model"
	submodel "github.com/wso2/delivery-approval-service/internal/subscription/model"
	"github.com/wso2/delivery-approval-service/internal/system/database/provider"
	"github.com/wso2/delivery-approval-service/internal/system/database/scripts"
	errors2 "github.com/wso2/delivery-approval-service/internal/system/errors"
	"github.com/wso2/delivery-approval-service/internal/system/log"
)

// ErrTierLimitReached is returned when a quota-checked write would push the
// tenant above its plan's active-rule cap. The service layer maps it to a
// Forbidden response naming the plan and the limit.
var ErrTierLimitReached = errors.New("active rule limit reached")

// AddApprovalRule inserts a new rule, enforcing the active-rule cap inside a
// single transaction. The tenant's subscription row is locked first so two
// concurrent creates cannot both slip under the cap.
func AddApprovalRule(rule model.ApprovalRule, activeRuleLimit int) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		return errors2.NewServerError(errors2.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	tx, err := dbClient.BeginTx()
	if err != nil {
		return errors2.NewServerError(errors2.TRANSACTION_BEGIN, err)
	}
	defer tx.Rollback()

	dbType := provider.NewDBProvider().GetDBType()

	if _, err := tx.Exec(scripts.LockTenantSubscription[dbType], rule.TenantId); err != nil {
		return errors2.NewServerError(errors2.EXECUTE_QUERY, err)
	}

	if activeRuleLimit != submodel.UnlimitedRules {
		var activeCount int
		if err := tx.QueryRow(scripts.CountActiveApprovalRules[dbType], rule.TenantId).Scan(&activeCount); err != nil {
			return errors2.NewServerError(errors2.COUNT_APPROVAL_RULES, err)
		}
		if activeCount >= activeRuleLimit {
			return ErrTierLimitReached
		}
	}

	phones, products, days, err := marshalConditions(&rule)
	if err != nil {
		return errors2.NewServerError(errors2.ADD_APPROVAL_RULE, err)
	}

	_, err = tx.Exec(scripts.InsertApprovalRule[dbType],
		rule.RuleId, rule.TenantId, rule.RuleName, rule.Description, rule.RuleType, rule.Priority, rule.IsActive,
		phones, products, rule.MinAmount, rule.MaxAmount, days, nullable(rule.StartTime), nullable(rule.EndTime),
		rule.CreatedAt, rule.UpdatedAt)
	if err != nil {
		errorMsg := fmt.Sprintf("Error occurred while adding approval rule: %s", rule.RuleName)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_APPROVAL_RULE.Code,
			Message:     errors2.ADD_APPROVAL_RULE.Message,
			Description: errorMsg,
		}, err)
	}

	if err := tx.Commit(); err != nil {
		return errors2.NewServerError(errors2.TRANSACTION_COMMIT, err)
	}

	logger.Info(fmt.Sprintf("Approval rule: %s added successfully", rule.RuleId))
	return nil
}

// GetApprovalRules fetches one page of a tenant's rules ordered by priority
// ascending, most recently created first among equal priorities.
func GetApprovalRules(tenantId string, filter model.ListFilter, limit, offset int) ([]model.ApprovalRule, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return nil, errors2.NewServerError(errors2.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	dbType := provider.NewDBProvider().GetDBType()

	var results []map[string]interface{}
	if filter.IsActive != nil {
		results, err = dbClient.ExecuteQuery(scripts.GetApprovalRulesPageByStatus[dbType],
			tenantId, *filter.IsActive, limit, offset)
	} else {
		results, err = dbClient.ExecuteQuery(scripts.GetApprovalRulesPage[dbType], tenantId, limit, offset)
	}
	if err != nil {
		errorMsg := fmt.Sprintf("Failed in fetching approval rules for tenant: %s", tenantId)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_APPROVAL_RULES.Code,
			Message:     errors2.FETCH_APPROVAL_RULES.Message,
			Description: errorMsg,
		}, err)
	}

	return rulesFromRows(results)
}

// GetActiveApprovalRules fetches all active rules of a tenant in evaluation
// order: priority ascending, earliest created first among equal priorities.
func GetActiveApprovalRules(tenantId string) ([]model.ApprovalRule, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return nil, errors2.NewServerError(errors2.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	dbType := provider.NewDBProvider().GetDBType()
	results, err := dbClient.ExecuteQuery(scripts.GetActiveApprovalRulesForEvaluation[dbType], tenantId)
	if err != nil {
		return nil, errors2.NewServerError(errors2.FETCH_APPROVAL_RULES, err)
	}

	return rulesFromRows(results)
}

// GetApprovalRuleById fetches one rule scoped to the owning tenant. Returns
// nil when no rule exists under that tenant, which callers surface as a
// not-found.
func GetApprovalRuleById(tenantId, ruleId string) (*model.ApprovalRule, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return nil, errors2.NewServerError(errors2.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	dbType := provider.NewDBProvider().GetDBType()
	results, err := dbClient.ExecuteQuery(scripts.GetApprovalRuleById[dbType], tenantId, ruleId)
	if err != nil {
		return nil, errors2.NewServerError(errors2.FETCH_APPROVAL_RULES, err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	rule, err := ruleFromRow(results[0])
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// CountApprovalRules counts a tenant's rules matching the listing filter.
func CountApprovalRules(tenantId string, filter model.ListFilter) (int, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return 0, errors2.NewServerError(errors2.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	dbType := provider.NewDBProvider().GetDBType()

	var results []map[string]interface{}
	if filter.IsActive != nil {
		results, err = dbClient.ExecuteQuery(scripts.CountApprovalRulesByStatus[dbType], tenantId, *filter.IsActive)
	} else {
		results, err = dbClient.ExecuteQuery(scripts.CountApprovalRules[dbType], tenantId)
	}
	if err != nil {
		return 0, errors2.NewServerError(errors2.COUNT_APPROVAL_RULES, err)
	}
	if len(results) == 0 {
		return 0, nil
	}

	return int(asInt64(results[0]["total"])), nil
}

// UpdateApprovalRule writes the mutable fields of a rule. The rule type is
// never written. Returns false when the rule does not exist under the tenant.
func UpdateApprovalRule(rule model.ApprovalRule) (bool, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return false, errors2.NewServerError(errors2.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	phones, products, days, err := marshalConditions(&rule)
	if err != nil {
		return false, errors2.NewServerError(errors2.UPDATE_APPROVAL_RULE, err)
	}

	dbType := provider.NewDBProvider().GetDBType()
	tx, err := dbClient.BeginTx()
	if err != nil {
		return false, errors2.NewServerError(errors2.TRANSACTION_BEGIN, err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(scripts.UpdateApprovalRule[dbType],
		rule.RuleName, rule.Description, rule.Priority, phones, products, rule.MinAmount, rule.MaxAmount,
		days, nullable(rule.StartTime), nullable(rule.EndTime), rule.UpdatedAt, rule.TenantId, rule.RuleId)
	if err != nil {
		return false, errors2.NewServerError(errors2.UPDATE_APPROVAL_RULE, err)
	}
	rows, _ := res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return false, errors2.NewServerError(errors2.TRANSACTION_COMMIT, err)
	}

	return rows > 0, nil
}

// SetApprovalRuleStatus toggles a rule's active flag. Activating a rule
// re-checks the tier quota under the same tenant lock as creation, so a
// tenant downgraded to a smaller plan cannot toggle itself above the new cap.
// Returns false when the rule does not exist under the tenant.
func SetApprovalRuleStatus(tenantId, ruleId string, isActive bool, activeRuleLimit int, updatedAt int64) (bool, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return false, errors2.NewServerError(errors2.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	dbType := provider.NewDBProvider().GetDBType()
	tx, err := dbClient.BeginTx()
	if err != nil {
		return false, errors2.NewServerError(errors2.TRANSACTION_BEGIN, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(scripts.LockTenantSubscription[dbType], tenantId); err != nil {
		return false, errors2.NewServerError(errors2.EXECUTE_QUERY, err)
	}

	rows, err := tx.Query(scripts.GetApprovalRuleById[dbType], tenantId, ruleId)
	if err != nil {
		return false, errors2.NewServerError(errors2.FETCH_APPROVAL_RULES, err)
	}
	exists := rows.Next()
	var currentlyActive bool
	if exists {
		cols, err := rows.Columns()
		if err != nil {
			rows.Close()
			return false, errors2.NewServerError(errors2.FETCH_APPROVAL_RULES, err)
		}
		vals := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			rows.Close()
			return false, errors2.NewServerError(errors2.FETCH_APPROVAL_RULES, err)
		}
		for i, col := range cols {
			if col == "is_active" {
				currentlyActive = asBool(vals[i])
			}
		}
	}
	rows.Close()

	if !exists {
		return false, nil
	}

	if isActive && !currentlyActive && activeRuleLimit != submodel.UnlimitedRules {
		var activeCount int
		if err := tx.QueryRow(scripts.CountActiveApprovalRules[dbType], tenantId).Scan(&activeCount); err != nil {
			return false, errors2.NewServerError(errors2.COUNT_APPROVAL_RULES, err)
		}
		if activeCount >= activeRuleLimit {
			return false, ErrTierLimitReached
		}
	}

	if _, err := tx.Exec(scripts.UpdateApprovalRuleStatus[dbType], isActive, updatedAt, tenantId, ruleId); err != nil {
		return false, errors2.NewServerError(errors2.UPDATE_APPROVAL_RULE, err)
	}

	if err := tx.Commit(); err != nil {
		return false, errors2.NewServerError(errors2.TRANSACTION_COMMIT, err)
	}

	return true, nil
}

// DeleteApprovalRule removes a rule permanently. Returns false when the rule
// does not exist under the tenant.
func DeleteApprovalRule(tenantId, ruleId string) (bool, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		return false, errors2.NewServerError(errors2.DB_CLIENT_INIT, err)
	}
	defer dbClient.Close()

	dbType := provider.NewDBProvider().GetDBType()
	tx, err := dbClient.BeginTx()
	if err != nil {
		return false, errors2.NewServerError(errors2.TRANSACTION_BEGIN, err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(scripts.DeleteApprovalRule[dbType], tenantId, ruleId)
	if err != nil {
		return false, errors2.NewServerError(errors2.DELETE_APPROVAL_RULE, err)
	}
	rows, _ := res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return false, errors2.NewServerError(errors2.TRANSACTION_COMMIT, err)
	}

	if rows > 0 {
		logger.Info(fmt.Sprintf("Approval rule: %s deleted successfully", ruleId))
	}
	return rows > 0, nil
}

// marshalConditions serializes the list-valued condition fields to JSON for
// the jsonb columns. Absent lists are stored as NULL rather than [].
func marshalConditions(rule *model.ApprovalRule) (interface{}, interface{}, interface{}, error) {

	marshal := func(values []string) (interface{}, error) {
		if len(values) == 0 {
			return nil, nil
		}
		raw, err := json.Marshal(values)
		if err != nil {
			return nil, err
		}
		return string(raw), nil
	}

	phones, err := marshal(rule.CustomerPhones)
	if err != nil {
		return nil, nil, nil, err
	}
	products, err := marshal(rule.ProductIds)
	if err != nil {
		return nil, nil, nil, err
	}
	days, err := marshal(rule.AllowedDays)
	if err != nil {
		return nil, nil, nil, err
	}
	return phones, products, days, nil
}

func rulesFromRows(rows []map[string]interface{}) ([]model.ApprovalRule, error) {
	var rules []model.ApprovalRule
	for _, row := range rows {
		rule, err := ruleFromRow(row)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func ruleFromRow(row map[string]interface{}) (model.ApprovalRule, error) {

	var rule model.ApprovalRule
	rule.RuleId = asString(row["rule_id"])
	rule.TenantId = asString(row["tenant_id"])
	rule.RuleName = asString(row["rule_name"])
	rule.Description = asString(row["description"])
	rule.RuleType = asString(row["rule_type"])
	rule.Priority = int(asInt64(row["priority"]))
	rule.IsActive = asBool(row["is_active"])
	rule.MinAmount = asFloatPtr(row["min_amount"])
	rule.MaxAmount = asFloatPtr(row["max_amount"])
	rule.StartTime = asString(row["start_time"])
	rule.EndTime = asString(row["end_time"])
	rule.CreatedAt = asInt64(row["created_at"])
	rule.UpdatedAt = asInt64(row["updated_at"])

	var err error
	if rule.CustomerPhones, err = unmarshalStrings(row["customer_phones"]); err != nil {
		return rule, errors2.NewServerError(errors2.FETCH_APPROVAL_RULES, err)
	}
	if rule.ProductIds, err = unmarshalStrings(row["product_ids"]); err != nil {
		return rule, errors2.NewServerError(errors2.FETCH_APPROVAL_RULES, err)
	}
	if rule.AllowedDays, err = unmarshalStrings(row["allowed_days"]); err != nil {
		return rule, errors2.NewServerError(errors2.FETCH_APPROVAL_RULES, err)
	}
	return rule, nil
}

func unmarshalStrings(v interface{}) ([]string, error) {
	raw := asString(v)
	if raw == "" {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, err
	}
	return values, nil
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

func asBool(v interface{}) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return false
}

func asFloatPtr(v interface{}) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case []byte:
		parsed, err := strconv.ParseFloat(string(n), 64)
		if err != nil {
			return nil
		}
		return &parsed
	}
	return nil
}

// nullable stores empty strings as NULL so absent time bounds read back as
// absent rather than "".
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
