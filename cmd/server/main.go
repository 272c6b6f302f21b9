/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the payroll engine server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load the rules file (a default is written if none exists)
  3. Initialize SQLite store and load the employee roster
  4. Open the activity journal
  5. Create API handler with dependencies
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port      HTTP server port (default: 8080)
  -db        SQLite database path (default: payroll.db)
             Use ":memory:" for in-memory database
  -rules     Rules YAML path (default: payroll_rules.yaml)
  -activity  Activity journal path (default: payroll_activity.log)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/payroll.db"

  # Run with in-memory database
  ./server -db=":memory:"

  # Run on different port
  ./server -port=3000

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/payroll-engine/api"
	"github.com/warp/payroll-engine/audit"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/registry"
	"github.com/warp/payroll-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "payroll.db", "SQLite database path")
	rulesPath := flag.String("rules", "payroll_rules.yaml", "Rules YAML path")
	activityPath := flag.String("activity", "payroll_activity.log", "Activity journal path")
	flag.Parse()

	// Load rules (writes the default file if none exists)
	rules, err := factory.LoadRulesFile(*rulesPath)
	if err != nil {
		log.Fatalf("Failed to load rules: %v", err)
	}
	for _, finding := range factory.LintBrackets(rules) {
		log.Printf("Warning: rule lint: %s", finding)
	}

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Load the employee roster
	employees, err := store.ListEmployees(context.Background())
	if err != nil {
		log.Fatalf("Failed to load employees: %v", err)
	}
	roster := registry.Load(employees)
	log.Printf("Loaded %d employees", roster.Len())

	// Open the activity journal
	journal, err := audit.New(*activityPath)
	if err != nil {
		log.Fatalf("Failed to open activity journal: %v", err)
	}

	// Initialize handler
	handler := api.NewHandler(roster, store, journal, rules)
	handler.RulesPath = *rulesPath

	// Create router
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		log.Printf("API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
