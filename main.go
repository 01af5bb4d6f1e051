package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"

	_ "github.com/kdimentionaltree/vesting-ledger-go/docs"
	"github.com/kdimentionaltree/vesting-ledger-go/vesting"
)

type Settings struct {
	PgDsn          string
	RedisAddr      string
	MaxConns       int
	MinConns       int
	Bind           string
	InstanceName   string
	Prefork        bool
	Debug          bool
	CacheTTL       time.Duration
	EventStreamLen int
	Request        vesting.RequestSettings
}

var engine *vesting.Engine
var settings Settings

func requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Context(), settings.Request.Timeout)
}

//	@title			Vesting Ledger API
//	@version		1.0.0
//	@description	Vesting Ledger escrows a fixed amount of a fungible asset and releases it to a single beneficiary on a linear schedule with an optional cliff. The admin may revoke the unvested remainder before full vesting.

// @summary Create vesting schedule
// @description Validates parameters, derives the schedule and vault authorities, escrows the total amount from the admin's holding and creates the schedule record. Fails if a schedule already exists for the same admin, beneficiary and asset.
// @id api_v1_create_schedule
// @tags vesting
// @Accept       json
// @Produce      json
// @success		200	{object}	vesting.CreateScheduleResponse
// @failure		400	{object}	vesting.VestingError
// @param	request body vesting.CreateScheduleRequest true "Schedule parameters. Amounts are decimal strings."
// @router			/api/v1/vesting/schedules [post]
func PostCreateSchedule(c *fiber.Ctx) error {
	req := vesting.CreateScheduleRequest{}
	if err := c.BodyParser(&req); err != nil {
		return vesting.VestingError{Message: err.Error(), Code: "BadRequest", Status: 422}
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	schedule, event, err := engine.CreateSchedule(ctx, req)
	if err != nil {
		return err
	}
	return c.JSON(vesting.CreateScheduleResponse{Schedule: schedule, Event: event})
}

// @summary Get vesting schedule
// @description Returns one schedule with vested, claimable and unvested amounts computed at the current time, plus the escrow balance. Identify the schedule either by address or by the full admin/beneficiary/asset triple.
// @id api_v1_get_schedule
// @tags vesting
// @Accept       json
// @Produce      json
// @success		200	{object}	vesting.ScheduleResponse
// @failure		400	{object}	vesting.VestingError
// @param	address query string false "Schedule address."
// @param	admin query string false "Admin identity. Must be sent with *beneficiary* and *asset*."
// @param	beneficiary query string false "Beneficiary identity."
// @param	asset query string false "Asset identifier."
// @router			/api/v1/vesting/schedule [get]
func GetSchedule(c *fiber.Ctx) error {
	req := vesting.ScheduleRequest{}
	if err := c.QueryParser(&req); err != nil {
		return vesting.VestingError{Message: err.Error(), Code: "BadRequest", Status: 422}
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	state, err := engine.GetScheduleState(ctx, req)
	if err != nil {
		return err
	}
	return c.JSON(state)
}

// @summary List vesting schedules
// @description Returns schedules matching the specified filters.
// @id api_v1_list_schedules
// @tags vesting
// @Accept       json
// @Produce      json
// @success		200	{object}	vesting.SchedulesResponse
// @failure		400	{object}	vesting.VestingError
// @param	admin query []string false "Admin identities." collectionFormat(multi)
// @param	beneficiary query []string false "Beneficiary identities." collectionFormat(multi)
// @param	asset query []string false "Asset identifiers." collectionFormat(multi)
// @param	limit query int32 false "Limit number of queried rows. Use with *offset* to batch read." minimum(1) maximum(1000) default(100)
// @param	offset query int32 false "Skip first N rows. Use with *limit* to batch read." minimum(0) default(0)
// @param	sort query string false "Sort schedules by address." Enums(asc, desc) default(asc)
// @router			/api/v1/vesting/schedules [get]
func GetSchedules(c *fiber.Ctx) error {
	filter := vesting.ScheduleFilter{}
	lim_req := vesting.LimitRequest{}

	if err := c.QueryParser(&filter); err != nil {
		return vesting.VestingError{Message: err.Error(), Code: "BadRequest", Status: 422}
	}
	if err := c.QueryParser(&lim_req); err != nil {
		return vesting.VestingError{Message: err.Error(), Code: "BadRequest", Status: 422}
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	schedules, err := engine.ListSchedules(ctx, filter, lim_req)
	if err != nil {
		return err
	}
	return c.JSON(vesting.SchedulesResponse{Schedules: schedules})
}

// @summary Claim vested tokens
// @description Releases the currently claimable amount from escrow to the beneficiary. Fails during the cliff period, after revocation, or when nothing is claimable.
// @id api_v1_claim
// @tags vesting
// @Accept       json
// @Produce      json
// @success		200	{object}	vesting.TransitionResponse
// @failure		400	{object}	vesting.VestingError
// @param	request body vesting.ClaimRequest true "Schedule address and the signing beneficiary."
// @router			/api/v1/vesting/claim [post]
func PostClaim(c *fiber.Ctx) error {
	req := vesting.ClaimRequest{}
	if err := c.BodyParser(&req); err != nil {
		return vesting.VestingError{Message: err.Error(), Code: "BadRequest", Status: 422}
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	event, err := engine.Claim(ctx, req)
	if err != nil {
		return err
	}
	return c.JSON(vesting.TransitionResponse{Event: event})
}

// @summary Revoke vesting schedule
// @description Returns the unvested remainder to the admin and permanently freezes the schedule. Fails if already revoked or fully vested.
// @id api_v1_revoke
// @tags vesting
// @Accept       json
// @Produce      json
// @success		200	{object}	vesting.TransitionResponse
// @failure		400	{object}	vesting.VestingError
// @param	request body vesting.RevokeRequest true "Schedule address and the signing admin."
// @router			/api/v1/vesting/revoke [post]
func PostRevoke(c *fiber.Ctx) error {
	req := vesting.RevokeRequest{}
	if err := c.BodyParser(&req); err != nil {
		return vesting.VestingError{Message: err.Error(), Code: "BadRequest", Status: 422}
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	event, err := engine.Revoke(ctx, req)
	if err != nil {
		return err
	}
	return c.JSON(vesting.TransitionResponse{Event: event})
}

func HealthCheck(c *fiber.Ctx) error {
	return c.Status(200).SendString("OK")
}

func ErrorHandlerFunc(ctx *fiber.Ctx, err error) error {
	ip := ctx.IP()
	if ips := ctx.IPs(); len(ips) > 0 {
		ip = ips[0]
	}

	switch e := err.(type) {
	case vesting.VestingError:
		if e.Status != 404 {
			log.Printf("Code: %s Path: %s IP: %s Queries: %v Body: %s Error: %s",
				e.Code, ctx.Path(), ip, ctx.Queries(), string(ctx.Body()), err.Error())
		}
		return ctx.Status(e.Status).JSON(e)
	default:
		log.Printf("Path: %s IP: %s Queries: %v Body: %s Error: %s",
			ctx.Path(), ip, ctx.Queries(), string(ctx.Body()), err.Error())
		resp := map[string]string{}
		resp["error"] = fmt.Sprintf("internal server error: %s", err.Error())
		return ctx.Status(fiber.StatusInternalServerError).JSON(resp)
	}
}

func main() {
	var timeout_ms int
	var cache_ttl_ms int

	flag.StringVar(&settings.PgDsn, "pg", "", "PostgreSQL connection string (empty: in-memory backend)")
	flag.StringVar(&settings.RedisAddr, "redis", "", "Redis address for event stream and schedule cache (empty: disabled)")
	flag.IntVar(&settings.MaxConns, "maxconns", 100, "PostgreSQL max connections")
	flag.IntVar(&settings.MinConns, "minconns", 0, "PostgreSQL min connections")
	flag.StringVar(&settings.Bind, "bind", ":8000", "Bind address")
	flag.StringVar(&settings.InstanceName, "name", "Go", "Instance name to show in Swagger UI")
	flag.BoolVar(&settings.Prefork, "prefork", false, "Prefork workers")
	flag.BoolVar(&settings.Debug, "debug", false, "Run service in debug mode")
	flag.IntVar(&timeout_ms, "query-timeout", 3000, "Query timeout in milliseconds")
	flag.IntVar(&cache_ttl_ms, "cache-ttl", 5000, "Schedule cache TTL in milliseconds")
	flag.IntVar(&settings.EventStreamLen, "event-stream-len", 100000, "Approximate max length of the Redis event stream")
	var defaultLimit, maxLimit int
	flag.IntVar(&defaultLimit, "default-limit", 100, "Default value for limit")
	flag.IntVar(&maxLimit, "max-limit", 1000, "Maximum value for limit")
	flag.Parse()
	settings.Request.Timeout = time.Duration(timeout_ms) * time.Millisecond
	settings.Request.DefaultLimit = int32(defaultLimit)
	settings.Request.MaxLimit = int32(maxLimit)
	settings.CacheTTL = time.Duration(cache_ttl_ms) * time.Millisecond

	// storage backend
	var backend vesting.Backend
	if settings.PgDsn != "" {
		db, err := vesting.NewDbClient(settings.PgDsn, settings.MaxConns, settings.MinConns)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		db.Settings = settings.Request
		if err := db.InitSchema(context.Background()); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
		backend = db
	} else {
		log.Println("no PostgreSQL DSN given, running with in-memory backend")
		backend = vesting.NewMemoryBackend()
	}

	engine = vesting.NewEngine(backend, vesting.WallClock{})
	engine.AddSink(vesting.LogSink{})

	if settings.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: settings.RedisAddr})
		engine.AddSink(vesting.NewRedisSink(client, vesting.DefaultEventStream, int64(settings.EventStreamLen)))
		engine.SetCache(vesting.NewScheduleCache(client, settings.CacheTTL))
	}

	// web server
	config := fiber.Config{
		AppName:      "Vesting Ledger API",
		Concurrency:  256 * 1024,
		Prefork:      settings.Prefork,
		ErrorHandler: ErrorHandlerFunc,
	}
	app := fiber.New(config)

	fiber.SetParserDecoder(fiber.ParserConfig{
		IgnoreUnknownKeys: true,
		ZeroEmpty:         true,
	})

	// endpoints
	app.Use("/api/v1/", func(c *fiber.Ctx) error {
		c.Accepts("application/json")
		start := time.Now()
		err := c.Next()
		stop := time.Now()
		c.Append("Server-timing", fmt.Sprintf("app;dur=%v", stop.Sub(start).String()))
		return err
	})
	if settings.Debug {
		app.Use(pprof.New())
	}

	// healthcheck
	app.Get("/healthcheck", HealthCheck)

	// schedules
	app.Get("/api/v1/vesting/schedule", GetSchedule)
	app.Get("/api/v1/vesting/schedules", GetSchedules)
	app.Post("/api/v1/vesting/schedules", PostCreateSchedule)

	// transitions
	app.Post("/api/v1/vesting/claim", PostClaim)
	app.Post("/api/v1/vesting/revoke", PostRevoke)

	// swagger
	var swagger_config = swagger.Config{
		Title:           "Vesting Ledger (" + settings.InstanceName + ") - Swagger UI",
		Layout:          "BaseLayout",
		DeepLinking:     true,
		TryItOutEnabled: true,
	}
	app.Get("/api/v1/*", swagger.New(swagger_config))
	err := app.Listen(settings.Bind)
	log.Fatal(err)
}
