package main

import (
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/wso2/delivery-approval-service/internal/system/config"
	"github.com/wso2/delivery-approval-service/internal/system/constants"
	dbprovider "github.com/wso2/delivery-approval-service/internal/system/database/provider"
	"github.com/wso2/delivery-approval-service/internal/system/log"
	"github.com/wso2/delivery-approval-service/internal/system/managers"
	"github.com/wso2/delivery-approval-service/internal/system/metrics"
	"github.com/wso2/delivery-approval-service/internal/system/services"
	"github.com/wso2/delivery-approval-service/internal/system/workers"
)

func main() {
	dasHome := getDASHome()
	const configFile = "/repository/conf/deployment.yaml"

	envFiles, err := filepath.Glob("config/*.env")
	if err == nil && len(envFiles) > 0 {
		_ = godotenv.Load(envFiles...)
	}

	// Load the configuration file
	dasConfig, err := config.LoadConfig(dasHome, configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize runtime configurations.
	if err := config.InitializeDASRuntime(dasHome, dasConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize DAS runtime: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log.Init(dasConfig.Log.LogLevel)
	logger := log.GetLogger()

	initDatabase(dasHome)

	// Initialize the decision audit queue.
	workers.StartDecisionWorker()

	serverAddr := fmt.Sprintf("%s:%d", dasConfig.Addr.Host, dasConfig.Addr.Port)
	mux := enableCORS(initMultiplexer(), dasConfig.Auth.CORSAllowedOrigins)
	logger.Info("WSO2 DAS starting", log.String("address", serverAddr))
	ln, err := net.Listen("tcp", serverAddr)
	if err != nil {
		logger.Fatal("Failed to start listener", log.Error(err))
	}

	logger.Info("WSO2 DAS started", log.String("address", serverAddr))

	server := &http.Server{Handler: mux}

	if err := server.Serve(ln); err != nil {
		logger.Fatal("Failed to serve requests", log.Error(err))
	}
}

// initDatabase applies the schema script. The script only creates objects
// that do not exist yet, so reruns are safe.
func initDatabase(dasHome string) {
	logger := log.GetLogger()

	dbClient, err := dbprovider.NewDBProvider().GetDBClient()
	if err != nil {
		logger.Fatal("Failed to connect to the database", log.Error(err))
	}
	defer dbClient.Close()

	if err := dbClient.InitDatabase(dasHome, "/dbscripts/postgres.sql"); err != nil {
		logger.Fatal("Failed to initialize the database schema", log.Error(err))
	}
}

// initMultiplexer initializes the HTTP multiplexer and registers the services.
func initMultiplexer() *http.ServeMux {

	mux := http.NewServeMux()
	serviceManager := managers.NewServiceManager(mux)

	// Register the services.
	if err := serviceManager.RegisterServices(constants.ApiBasePath); err != nil {
		log.GetLogger().Fatal("Failed to register the services", log.Error(err))
	}

	healthService := services.NewHealthService()
	mux.HandleFunc("/health", healthService.Route)
	mux.HandleFunc("/ready", healthService.Route)
	mux.Handle("/metrics", metrics.GetCollector().Handler())

	return mux
}

func enableCORS(next http.Handler, allowedOrigins []string) http.Handler {
	origins := "*"
	if len(allowedOrigins) > 0 {
		origins = strings.Join(allowedOrigins, ", ")
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origins)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func getDASHome() string {

	// Parse project directory from command line arguments.
	projectHome := ""
	projectHomeFlag := flag.String("dasHome", "", "Path to delivery approval service home directory")
	flag.Parse()

	if *projectHomeFlag != "" {
		projectHome = *projectHomeFlag
	} else {
		// If no command line argument is provided, use the current working directory.
		dir, dirErr := os.Getwd()
		if dirErr != nil {
			fmt.Fprintf(os.Stderr, "Failed to get current working directory: %v\n", dirErr)
		}
		projectHome = dir
	}

	return projectHome
}
