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

package scripts

const approvalRuleColumns = `rule_id, tenant_id, rule_name, description, rule_type, priority, is_active,
       customer_phones::text, product_ids::text, min_amount, max_amount, allowed_days::text,
       start_time, end_time, created_at, updated_at`

var InsertApprovalRule = map[string]string{
	"postgres": `INSERT INTO approval_rules
	(rule_id, tenant_id, rule_name, description, rule_type, priority, is_active, customer_phones, product_ids,
	 min_amount, max_amount, allowed_days, start_time, end_time, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
}

var GetApprovalRulesPage = map[string]string{
	"postgres": `SELECT ` + approvalRuleColumns + ` FROM approval_rules WHERE tenant_id = $1
	ORDER BY priority ASC, created_at DESC LIMIT $2 OFFSET $3`,
}

var GetApprovalRulesPageByStatus = map[string]string{
	"postgres": `SELECT ` + approvalRuleColumns + ` FROM approval_rules WHERE tenant_id = $1 AND is_active = $2
	ORDER BY priority ASC, created_at DESC LIMIT $3 OFFSET $4`,
}

var GetApprovalRuleById = map[string]string{
	"postgres": `SELECT ` + approvalRuleColumns + ` FROM approval_rules
	WHERE tenant_id = $1 AND rule_id = $2 LIMIT 1`,
}

// Evaluation order is priority ascending with earliest-created first among
// equal priorities; rule_id keeps the order total.
var GetActiveApprovalRulesForEvaluation = map[string]string{
	"postgres": `SELECT ` + approvalRuleColumns + ` FROM approval_rules
	WHERE tenant_id = $1 AND is_active = TRUE
	ORDER BY priority ASC, created_at ASC, rule_id ASC`,
}

var CountApprovalRules = map[string]string{
	"postgres": `SELECT COUNT(*) AS total FROM approval_rules WHERE tenant_id = $1`,
}

var CountApprovalRulesByStatus = map[string]string{
	"postgres": `SELECT COUNT(*) AS total FROM approval_rules WHERE tenant_id = $1 AND is_active = $2`,
}

var CountActiveApprovalRules = map[string]string{
	"postgres": `SELECT COUNT(*) AS total FROM approval_rules WHERE tenant_id = $1 AND is_active = TRUE`,
}

var UpdateApprovalRule = map[string]string{
	"postgres": `UPDATE approval_rules
	SET rule_name = $1,
		description = $2,
		priority = $3,
		customer_phones = $4,
		product_ids = $5,
		min_amount = $6,
		max_amount = $7,
		allowed_days = $8,
		start_time = $9,
		end_time = $10,
		updated_at = $11
	WHERE tenant_id = $12 AND rule_id = $13`,
}

var UpdateApprovalRuleStatus = map[string]string{
	"postgres": `UPDATE approval_rules SET is_active = $1, updated_at = $2
	WHERE tenant_id = $3 AND rule_id = $4`,
}

var DeleteApprovalRule = map[string]string{
	"postgres": `DELETE FROM approval_rules WHERE tenant_id = $1 AND rule_id = $2`,
}

var GetTenantSubscription = map[string]string{
	"postgres": `SELECT tenant_id, plan, status, created_at, updated_at FROM tenant_subscriptions
	WHERE tenant_id = $1 LIMIT 1`,
}

// LockTenantSubscription serializes quota-checked writes for one tenant. The
// count-then-insert pair runs inside the same transaction holding this lock.
var LockTenantSubscription = map[string]string{
	"postgres": `SELECT tenant_id FROM tenant_subscriptions WHERE tenant_id = $1 FOR UPDATE`,
}
