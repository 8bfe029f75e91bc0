package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/unrolled/render"
	"github.com/urfave/cli"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/putrasera/seranet/app/models"
	"github.com/putrasera/seranet/app/services"
	"github.com/putrasera/seranet/database/seeders"
)

type Server struct {
	DB        *gorm.DB
	Router    *mux.Router
	AppConfig *AppConfig
	Gateway   services.DisbursementGateway
}

type AppConfig struct {
	AppName string
	AppEnv  string
	AppPort string
	AppURL  string
}

type DBConfig struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBDriver   string
}

type Result struct {
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
}

var apiRender = render.New()

func (server *Server) Initialize(appConfig AppConfig, dbConfig DBConfig) {
	fmt.Println("Welcome to " + appConfig.AppName)

	server.initializeDB(dbConfig)
	server.initializeAppConfig(appConfig)
	server.initializeGateway()
	server.initializeRoutes()
}

func (server *Server) Run(addr string) {
	fmt.Printf("Listening to port %s", addr)
	log.Fatal(http.ListenAndServe(addr, server.Router))
}

func (server *Server) initializeDB(dbConfig DBConfig) {
	var err error
	if dbConfig.DBDriver == "mysql" {
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local", dbConfig.DBUser, dbConfig.DBPassword, dbConfig.DBHost, dbConfig.DBPort, dbConfig.DBName)
		server.DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
	} else {
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=Asia/Jakarta", dbConfig.DBHost, dbConfig.DBUser, dbConfig.DBPassword, dbConfig.DBName, dbConfig.DBPort)
		server.DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	if err != nil {
		panic("Failed on connecting to the database server")
	}
}

func (server *Server) initializeAppConfig(appConfig AppConfig) {
	server.AppConfig = &appConfig
}

func (server *Server) initializeGateway() {
	server.Gateway = services.NewXenditGateway(os.Getenv("XENDIT_SECRET_KEY"))
}

func (server *Server) dbMigrate() {
	for _, model := range models.RegisterModels() {
		err := server.DB.Debug().AutoMigrate(model.Model)

		if err != nil {
			log.Fatal(err)
		}
	}

	fmt.Println("Database migrated successfully.")
}

func (server *Server) InitCommands(config AppConfig, dbConfig DBConfig) {
	server.initializeDB(dbConfig)
	server.initializeGateway()

	cmdApp := cli.NewApp()
	cmdApp.Commands = []cli.Command{
		{
			Name: "db:migrate",
			Action: func(c *cli.Context) error {
				server.dbMigrate()
				return nil
			},
		},
		{
			Name: "db:seed",
			Action: func(c *cli.Context) error {
				err := seeders.DBSeed(server.DB)
				if err != nil {
					log.Fatal(err)
				}

				return nil
			},
		},
		{
			Name: "bonus:daily",
			Action: func(c *cli.Context) error {
				result, err := services.RunDailyBonusCalc(server.DB)
				if err != nil {
					log.Fatal(err)
				}

				fmt.Printf("Kalkulasi harian selesai: pairing %d, plan B %d, plan C %d, peringkat %d\n",
					result.Pairing.Processed, result.PlanB.Processed,
					result.PlanC.Processed, result.Ranks.Processed)
				return nil
			},
		},
		{
			Name: "bonus:settlement",
			Action: func(c *cli.Context) error {
				start, end := services.DefaultSettlementWindow()
				result, err := services.RunBiweeklySettlement(server.DB, start, end)
				if err != nil {
					log.Fatal(err)
				}

				fmt.Printf("Settlement selesai: %s PV, SHU %d member, SERACOIN %d member\n",
					result.TotalPV.String(), result.SHU.Processed, result.Seracoin.Processed)
				return nil
			},
		},
		{
			Name: "bonus:weekly",
			Action: func(c *cli.Context) error {
				result, err := services.RunWeeklyRepurchaseCheck(server.DB)
				if err != nil {
					log.Fatal(err)
				}

				fmt.Printf("Cek mingguan selesai: %d memenuhi, %d gagal\n",
					result.MetRequirement, result.FailedRequirement)
				return nil
			},
		},
	}

	err := cmdApp.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

// JSON menulis envelope sukses standar.
func JSON(w http.ResponseWriter, code int, data interface{}, message string) {
	_ = apiRender.JSON(w, code, Result{Code: code, Data: data, Message: message})
}

// JSONError memetakan error service ke status HTTP.
func JSONError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError

	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrInvalidPin),
		errors.Is(err, services.ErrInsufficientBalance),
		errors.Is(err, services.ErrInsufficientStock):
		code = http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrSponsorNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		code = http.StatusNotFound
	case errors.Is(err, services.ErrAlreadyRegistered),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrPeriodAlreadySettled),
		errors.Is(err, services.ErrConcurrencyConflict),
		errors.Is(err, services.ErrCodeCollision):
		code = http.StatusConflict
	}

	_ = apiRender.JSON(w, code, Result{Code: code, Message: err.Error()})
}

// parseDate menerima format YYYY-MM-DD untuk parameter periode.
func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}
