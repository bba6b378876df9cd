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

package errors

const errorPrefix = "DAS-"

var (
	// Server error codes

	DB_CLIENT_INIT = ErrorMessage{
		Code:    errorPrefix + "15001",
		Message: "Error while initializing the database client.",
	}

	EXECUTE_QUERY = ErrorMessage{
		Code:    errorPrefix + "15002",
		Message: "Error while executing database query.",
	}

	TRANSACTION_BEGIN = ErrorMessage{
		Code:    errorPrefix + "15003",
		Message: "Error while starting database transaction.",
	}

	TRANSACTION_COMMIT = ErrorMessage{
		Code:    errorPrefix + "15004",
		Message: "Error while committing database transaction.",
	}

	ADD_APPROVAL_RULE = ErrorMessage{
		Code:    errorPrefix + "15005",
		Message: "Error while adding approval rule.",
	}

	FETCH_APPROVAL_RULES = ErrorMessage{
		Code:    errorPrefix + "15006",
		Message: "Error while fetching approval rule(s).",
	}

	UPDATE_APPROVAL_RULE = ErrorMessage{
		Code:    errorPrefix + "15007",
		Message: "Error while updating approval rule.",
	}

	DELETE_APPROVAL_RULE = ErrorMessage{
		Code:    errorPrefix + "15008",
		Message: "Error while deleting approval rule.",
	}

	COUNT_APPROVAL_RULES = ErrorMessage{
		Code:    errorPrefix + "15009",
		Message: "Error while counting approval rules.",
	}

	FETCH_SUBSCRIPTION = ErrorMessage{
		Code:    errorPrefix + "15010",
		Message: "Error while fetching tenant subscription.",
	}

	EVALUATE_RULES = ErrorMessage{
		Code:    errorPrefix + "15011",
		Message: "Error while evaluating approval rules.",
	}

	AUDIT_WRITE = ErrorMessage{
		Code:    errorPrefix + "15012",
		Message: "Error while writing evaluation audit record.",
	}

	// Client error codes

	INVALID_REQUEST = ErrorMessage{
		Code:    errorPrefix + "11001",
		Message: "Invalid request payload.",
	}

	RULE_NOT_FOUND = ErrorMessage{
		Code:        errorPrefix + "11002",
		Message:     "Approval rule not found.",
		Description: "No approval rule record found for the given rule_id under the requesting tenant",
	}

	RULE_VALIDATION = ErrorMessage{
		Code:    errorPrefix + "11003",
		Message: "Approval rule validation failed.",
	}

	INVALID_RULE_TYPE = ErrorMessage{
		Code:    errorPrefix + "11004",
		Message: "Unknown approval rule type.",
	}

	RULE_FIELD_NOT_UPDATABLE = ErrorMessage{
		Code:    errorPrefix + "11005",
		Message: "Field cannot be updated.",
	}

	NO_ACTIVE_SUBSCRIPTION = ErrorMessage{
		Code:    errorPrefix + "11006",
		Message: "No active subscription.",
	}

	TIER_LIMIT_REACHED = ErrorMessage{
		Code:    errorPrefix + "11007",
		Message: "Active rule limit reached for subscription plan.",
	}

	INVALID_PAGINATION = ErrorMessage{
		Code:    errorPrefix + "11008",
		Message: "Invalid pagination parameters.",
	}

	UNAUTHORIZED = ErrorMessage{
		Code:    errorPrefix + "11009",
		Message: "Authentication failed.",
	}
)
