package main

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/kspforge/shipwright/internal/analyzer"
	"github.com/kspforge/shipwright/internal/api"
	"github.com/kspforge/shipwright/internal/config"
	"github.com/kspforge/shipwright/internal/database"
	"github.com/kspforge/shipwright/internal/influx"
	"github.com/kspforge/shipwright/internal/logging"
	"github.com/kspforge/shipwright/internal/monitor"
	"github.com/kspforge/shipwright/internal/parser"
	"github.com/kspforge/shipwright/internal/session"
	"github.com/kspforge/shipwright/internal/storage"
)

// module defs - BuildDate can be set at build time via ldflags
var (
	CurrentToolVersion string = "0.1.0"
	BuildDate          string = "unknown"

	ToolName string = "shipwright"
)

// file paths
var (
	// WorkDir is the directory the tool was launched from. The config file
	// and relative paths inside it resolve against this.
	WorkDir string

	InitLogFilePath string
	InitLogFile     *os.File

	SessionLogFilePath string
	SessionLogFile     *os.File
)

// global variables
var (
	// SlogManager handles all slog-based logging
	SlogManager *logging.SlogManager

	// Logger is the slog logger (convenience reference)
	Logger *slog.Logger

	// ZLog is the zerolog root used by the database and metrics clients
	ZLog zerolog.Logger

	SessionStartTime time.Time = time.Now()

	// Services
	partParser      *parser.Parser
	sessionContext  *session.Context
	analyzerService *analyzer.Service
	monitorService  *monitor.Service

	// Storage backend
	storageBackend storage.Backend

	// Optional integrations
	dbManager     *database.Manager
	influxManager *influx.Manager
	apiClient     *api.Client
)

// init brings up logging and configuration before main dispatches a command.
func init() {
	var err error

	WorkDir, err = os.Getwd()
	if err != nil {
		WorkDir = "."
	}

	InitLogFilePath = filepath.Join(WorkDir, "init.log")

	InitLogFile, err = os.Create(InitLogFilePath)
	if err != nil {
		// Log to stderr since logging isn't set up yet
		fmt.Fprintf(os.Stderr, "Failed to create init log file: %v\n", err)
	}

	// Initialize slog manager with initial config
	SlogManager = logging.NewSlogManager()
	SlogManager.Setup(InitLogFile, viper.GetString("logLevel"), nil)
	Logger = SlogManager.Logger()

	// load config
	err = loadConfig()
	if err != nil {
		Logger.Warn("Failed to load config, using defaults!", "error", err)
	} else {
		Logger.Info("Loaded config")
	}

	// create logs dir if it doesn't exist
	if _, err := os.Stat(viper.GetString("logsDir")); os.IsNotExist(err) {
		os.Mkdir(viper.GetString("logsDir"), 0755)
	}

	SessionLogFilePath = filepath.Join(
		viper.GetString("logsDir"),
		fmt.Sprintf("%s.%s.log", ToolName, SessionStartTime.Format("20060102_150405")),
	)

	// check if SessionLogFilePath exists
	// if it does, move it to SessionLogFilePath.old
	// if it doesn't, create it
	if _, err := os.Stat(SessionLogFilePath); err == nil {
		os.Rename(SessionLogFilePath, SessionLogFilePath+".old")
	}

	SessionLogFile, err = os.OpenFile(SessionLogFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		Logger.Error("Failed to create/open log file!", "error", err, "path", SessionLogFilePath)
	}

	Logger.Info("Begin logging in logs directory", "path", SessionLogFilePath)

	// Connect the GELF writer if Graylog shipping is enabled
	var graylogWriter io.Writer
	if viper.GetBool("graylog.enabled") {
		gelfWriter, err := gelf.NewWriter(viper.GetString("graylog.address"))
		if err != nil {
			Logger.Error("Failed to connect to Graylog", "error", err, "address", viper.GetString("graylog.address"))
		} else {
			graylogWriter = gelfWriter
		}
	}

	// Re-setup logging with file output and optional Graylog
	SlogManager.Setup(SessionLogFile, viper.GetString("logLevel"), graylogWriter)
	Logger = SlogManager.Logger()
	Logger.Info("Logging to file", "path", SessionLogFilePath)

	var zerologOut io.Writer = os.Stderr
	if SessionLogFile != nil {
		zerologOut = SessionLogFile
	}
	ZLog = zerolog.New(zerologOut).With().Timestamp().Str("tool", ToolName).Logger()

	// get number of CPUs
	numCPUs := runtime.NumCPU()
	Logger.Debug("Number of CPUs", "numCPUs", numCPUs)

	// watch mode runs alongside the game, so leave it some cores
	runtime.GOMAXPROCS(int(math.Max(float64(numCPUs-2), 1)))
}

func main() {
	var err error
	Logger.Info("Starting up...")

	args := os.Args[1:]
	command := "run"
	if len(args) > 0 {
		command = strings.ToLower(args[0])
	}

	// version and healthcheck answer without touching storage
	if command == "version" {
		fmt.Printf("%s %s (built %s)\n", ToolName, CurrentToolVersion, BuildDate)
		return
	}
	if command == "healthcheck" {
		client := api.New(viper.GetString("api.serverUrl"), viper.GetString("api.apiKey"))
		if err = client.Healthcheck(); err != nil {
			Logger.Info("Hangar frontend is offline", "error", err)
			fmt.Println("Hangar frontend is offline.")
			os.Exit(1)
		}
		Logger.Info("Hangar frontend is online")
		fmt.Println("Hangar frontend is online.")
		return
	}

	Logger.Info("Initializing storage...")
	err = initStorage()
	if err != nil {
		panic(err)
	}
	Logger.Info("Storage initialization complete.")

	initServices()
	go checkServerStatus()

	if !monitorService.IsRunning() {
		Logger.Debug("Status process not running, starting it")
		monitorService.Start()
	}

	interactive := false
	switch command {
	case "run":
		err = analyzerService.Run()
		interactive = true
	case "watch":
		stop := make(chan struct{})
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigCh
			Logger.Info("Shutdown signal received, ending watch session")
			close(stop)
		}()
		err = analyzerService.Watch(viper.GetDuration("watch.interval"), stop)
	case "catalog":
		err = analyzerService.RunCatalog()
		interactive = true
	case "ship":
		if len(args) < 2 {
			fmt.Println("No ship file provided.")
		} else {
			err = analyzerService.RunShip(args[1])
		}
		interactive = true
	case "demo":
		Logger.Info("Loading demo data...")
		demoStart := time.Now()
		err = analyzerService.RunFixtures(demoParts, demoShips)
		Logger.Info("Demo data loaded.", "duration", time.Since(demoStart))
		interactive = true
	default:
		fmt.Println("Unknown command: ", command)
	}

	if err != nil {
		Logger.Error("Command failed", "command", command, "error", err)
	}

	shutdown()

	if err != nil {
		os.Exit(1)
	}
	if interactive {
		fmt.Println("Press enter to exit.")
		_, _ = fmt.Scanln()
	}
}

// initServices builds the session services on top of the storage backend.
func initServices() {
	partParser = parser.NewParser(Logger)
	sessionContext = session.NewContext()
	SlogManager.SetContextProvider(sessionAttrs)

	if viper.GetBool("influx.enabled") {
		influxManager = influx.NewManager(ZLog, filepath.Join(viper.GetString("logsDir"), "influx_backup.log.gzip"))
		if err := influxManager.Connect(); err != nil {
			Logger.Error("Failed to initialize InfluxDB client", "error", err)
			influxManager = nil
		}
	}

	if serverURL := viper.GetString("api.serverUrl"); serverURL != "" {
		apiClient = api.New(serverURL, viper.GetString("api.apiKey"))
	}

	analyzerService = analyzer.NewService(analyzer.Dependencies{
		Parser:         partParser,
		Backend:        storageBackend,
		LogManager:     SlogManager,
		FleetLog:       logging.NewFleetLogger(ZLog),
		SessionContext: sessionContext,
		Influx:         influxManager,
		APIClient:      apiClient,
		Game:           config.GetGameConfig(),
		Tag:            viper.GetString("defaultTag"),
		ToolVersion:    CurrentToolVersion,
		Workers:        viper.GetInt("fleet.workers"),
	})

	monitorService = monitor.NewService(monitor.Dependencies{
		Backend:        storageBackend,
		Influx:         influxManager,
		LogManager:     SlogManager,
		SessionContext: sessionContext,
		StatusDir:      viper.GetString("watch.statusDir"),
		Interval:       viper.GetDuration("monitor.interval"),
	})
}

func loadConfig() (err error) {
	return config.Load(WorkDir)
}

// sessionAttrs stamps log records with the active session. Records written
// before the backend assigns a session ID stay unstamped.
func sessionAttrs() []slog.Attr {
	sess := sessionContext.GetSession()
	if sess == nil || sess.ID == 0 {
		return nil
	}
	attrs := []slog.Attr{
		slog.Uint64("sessionId", uint64(sess.ID)),
		slog.String("tag", sess.Tag),
	}
	if install := sessionContext.GetInstall(); install != nil && install.Path != "" {
		attrs = append(attrs, slog.String("gameRoot", install.Path))
	}
	return attrs
}

func checkServerStatus() {
	if apiClient == nil {
		return
	}
	if err := apiClient.Healthcheck(); err != nil {
		Logger.Info("Hangar frontend is offline")
	} else {
		Logger.Info("Hangar frontend is online")
	}
}

// shutdown stops everything in dependency order: the monitor first so nothing
// samples a closing backend, then storage, then the metrics and database
// connections behind it.
func shutdown() {
	if monitorService != nil {
		monitorService.Stop()
	}
	if storageBackend != nil {
		if err := storageBackend.Close(); err != nil {
			Logger.Error("Error closing storage backend", "error", err)
		}
	}
	if influxManager != nil {
		influxManager.Close()
	}
	if dbManager != nil && dbManager.SqlDB != nil {
		if err := dbManager.SqlDB.Close(); err != nil {
			Logger.Error("Error closing database connection", "error", err)
		}
	}
	if err := SlogManager.Close(); err != nil {
		Logger.Error("Error closing log outputs", "error", err)
	}
	if SessionLogFile != nil {
		SessionLogFile.Close()
	}
	if InitLogFile != nil {
		InitLogFile.Close()
	}
}
