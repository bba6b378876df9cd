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

package utils

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/wso2/delivery-approval-service/internal/system/constants"
	syscontext "github.com/wso2/delivery-approval-service/internal/system/context"
	customerrors "github.com/wso2/delivery-approval-service/internal/system/errors"
	"github.com/wso2/delivery-approval-service/internal/system/log"
)

// HandleError sends an HTTP error response based on the provided error
func HandleError(w http.ResponseWriter, err error) {
	var clientError *customerrors.ClientError
	w.Header().Set("Content-Type", "application/json")
	if ok := errors.As(err, &clientError); ok {
		w.WriteHeader(clientError.StatusCode)
		_ = json.NewEncoder(w).Encode(struct {
			Code        string `json:"code"`
			Message     string `json:"message"`
			Description string `json:"description"`
		}{
			Code:        clientError.ErrorMessage.Code,
			Message:     clientError.ErrorMessage.Message,
			Description: clientError.ErrorMessage.Description,
		})
		return
	}

	var serverError *customerrors.ServerError
	if ok := errors.As(err, &serverError); ok {
		logger := log.GetLogger()
		logger.Error(err.Error(), log.String("trace_id", serverError.TraceID))
	}
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": "Internal server error",
	})
}

// WriteErrorResponse sends a client error with its own status code.
func WriteErrorResponse(w http.ResponseWriter, err *customerrors.ClientError) {

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)

	_ = json.NewEncoder(w).Encode(err.ErrorMessage)
}

// ExtractTenantIdFromPath returns the tenant placed on the request context by
// the tenant dispatcher.
func ExtractTenantIdFromPath(r *http.Request) string {
	tenant, _ := r.Context().Value(constants.TenantContextKey).(string)
	return tenant
}

// RewriteToDefaultTenant rewrites `/api/v1/...` to `/t/{defaultTenant}/api/v1/...`
func RewriteToDefaultTenant(apiBasePath string, mux *http.ServeMux, defaultTenant string) {
	mux.HandleFunc(apiBasePath+"/", func(w http.ResponseWriter, r *http.Request) {
		newPath := "/t/" + defaultTenant + r.URL.Path
		http.Redirect(w, r, newPath, http.StatusTemporaryRedirect)
	})
}

// MountTenantDispatcher mounts a handler under /t/{tenant}/{apiBasePath} and
// places the tenant on the request context before dispatching.
func MountTenantDispatcher(mux *http.ServeMux, apiBasePath string, handlerFunc http.HandlerFunc) {
	mux.HandleFunc("/t/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimSuffix(r.URL.Path, "/")

		if !strings.HasPrefix(path, "/t/") {
			http.NotFound(w, r)
			return
		}

		// Split: /t/{tenant}/api/v1/...
		parts := strings.SplitN(path[len("/t/"):], "/", 2)
		if len(parts) != 2 {
			http.Error(w, "Invalid tenant path format", http.StatusBadRequest)
			return
		}

		tenantID := parts[0]
		remainingPath := "/" + parts[1]

		if !strings.HasPrefix(remainingPath, apiBasePath) {
			http.Error(w, "Path must start with "+apiBasePath, http.StatusNotFound)
			return
		}

		relativePath := strings.TrimPrefix(remainingPath, apiBasePath)

		ctx := context.WithValue(r.Context(), constants.TenantContextKey, tenantID)
		traceID := r.Header.Get("X-Trace-Id")
		if traceID == "" {
			traceID = syscontext.GenerateTraceID()
		}
		ctx = syscontext.WithTraceID(ctx, traceID)
		w.Header().Set("X-Trace-Id", traceID)
		r = r.WithContext(ctx)
		r.URL.Path = relativePath

		handlerFunc(w, r)
	})
}
