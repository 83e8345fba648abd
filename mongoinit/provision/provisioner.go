package provision

import (
	"context"
	"errors"
	"fmt"
	"time"

	constant "github.com/Capi12YT/demo-avoris/mongoinit/constants"
	"github.com/Capi12YT/demo-avoris/mongoinit/log"
	"github.com/Capi12YT/demo-avoris/mongoinit/mongo"
	libOpentelemetry "github.com/Capi12YT/demo-avoris/mongoinit/opentelemetry"
	"github.com/Capi12YT/demo-avoris/mongoinit/opentelemetry/metrics"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/attribute"
)

var (
	// ErrNilContext is returned when a required context is nil.
	ErrNilContext = errors.New("context cannot be nil")
	// ErrNilAdmin is returned when the provisioner has no admin client.
	ErrNilAdmin = errors.New("provisioner admin client is nil")
	// ErrNilProvisioner is returned when a *Provisioner receiver is nil.
	ErrNilProvisioner = errors.New("provisioner is nil")
	// ErrStepFailed wraps the failure of any provisioning step.
	ErrStepFailed = errors.New("provisioning step failed")
)

// Step identifies one provisioning step.
type Step string

// Provisioning steps in execution order.
const (
	StepSelectDatabase   Step = "select_database"
	StepCreateUser       Step = "create_user"
	StepCreateCollection Step = "create_collection"
	StepCreateIndex      Step = "create_index"
)

// StepError carries the step that aborted the run.
// It matches both ErrStepFailed and the underlying cause with errors.Is.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStepFailed, e.Step, e.Err)
}

func (e *StepError) Unwrap() []error {
	return []error{ErrStepFailed, e.Err}
}

// Admin is the subset of the mongo client the provisioner drives.
type Admin interface {
	UseDatabase(name string) error
	CreateUser(ctx context.Context, user mongo.User) error
	CreateCollection(ctx context.Context, name string) error
	CreateIndexes(ctx context.Context, collection string, indexes ...mongodriver.IndexModel) ([]string, error)
}

var _ Admin = (*mongo.Client)(nil)

// Result reports what a successful run created.
type Result struct {
	Database   string
	Username   string
	Collection string
	// CollectionExisted is set when the collection was already present.
	CollectionExisted bool
	Indexes           []string
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithLogger sets the logger. Nil keeps the no-op logger.
func WithLogger(logger log.Logger) Option {
	return func(p *Provisioner) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics records step failures and durations on factory.
func WithMetrics(factory *metrics.Factory) Option {
	return func(p *Provisioner) {
		p.metrics = factory
	}
}

// WithProduction hides error details in failure logs.
func WithProduction(production bool) Option {
	return func(p *Provisioner) {
		p.production = production
	}
}

var (
	stepFailuresMetric = metrics.Metric{
		Name:        constant.MetricStepFailuresTotal,
		Unit:        "1",
		Description: "Total number of provisioning steps that aborted the run",
	}
	stepDurationMetric = metrics.Metric{
		Name:        constant.MetricStepDuration,
		Unit:        "ms",
		Description: "Duration of each provisioning step",
		Buckets:     metrics.DefaultLatencyBuckets,
	}
)

// Provisioner executes a Plan against an Admin client.
type Provisioner struct {
	admin      Admin
	logger     log.Logger
	metrics    *metrics.Factory
	production bool
}

// NewProvisioner returns a Provisioner driving admin.
func NewProvisioner(admin Admin, opts ...Option) (*Provisioner, error) {
	if admin == nil {
		return nil, ErrNilAdmin
	}

	p := &Provisioner{
		admin:  admin,
		logger: log.NewNop(),
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		opt(p)
	}

	return p, nil
}

// Run executes plan step by step and stops at the first failure.
func (p *Provisioner) Run(ctx context.Context, plan Plan) (Result, error) {
	if p == nil {
		return Result{}, ErrNilProvisioner
	}

	if ctx == nil {
		return Result{}, ErrNilContext
	}

	if err := plan.Validate(); err != nil {
		return Result{}, err
	}

	ctx, span := libOpentelemetry.Tracer().Start(ctx, "mongo_init.run")
	defer span.End()

	span.SetAttributes(attribute.String(constant.AttrDBName, plan.Database))

	result := Result{Database: plan.Database}

	steps := []struct {
		step Step
		run  func(context.Context) error
	}{
		{StepSelectDatabase, func(context.Context) error {
			return p.admin.UseDatabase(plan.Database)
		}},
		{StepCreateUser, func(ctx context.Context) error {
			return p.createUser(ctx, plan, &result)
		}},
		{StepCreateCollection, func(ctx context.Context) error {
			return p.createCollection(ctx, plan, &result)
		}},
		{StepCreateIndex, func(ctx context.Context) error {
			return p.createIndex(ctx, plan, &result)
		}},
	}

	for _, s := range steps {
		if err := p.runStep(ctx, s.step, s.run); err != nil {
			libOpentelemetry.HandleSpanError(span, "Provisioning failed", err)

			return result, err
		}
	}

	p.logger.Log(ctx, log.LevelInfo, "database initialized with user",
		log.String("database", result.Database),
		log.String("username", result.Username),
	)
	p.logger.Log(ctx, log.LevelInfo, "collection created",
		log.String("collection", result.Collection),
		log.Bool("pre_existing", result.CollectionExisted),
	)
	p.logger.Log(ctx, log.LevelInfo, "indexes created",
		log.String("index", plan.IndexName()),
	)

	return result, nil
}

func (p *Provisioner) runStep(ctx context.Context, step Step, run func(context.Context) error) error {
	ctx, span := libOpentelemetry.Tracer().Start(ctx, "mongo_init."+string(step))
	defer span.End()

	span.SetAttributes(attribute.String(constant.AttrProvisionStep, string(step)))

	start := time.Now()
	err := run(ctx)

	outcome := "success"
	if err != nil {
		outcome = "failure"
	}

	p.recordDuration(ctx, step, outcome, time.Since(start))

	if err == nil {
		return nil
	}

	stepErr := &StepError{Step: step, Err: err}

	libOpentelemetry.HandleSpanError(span, "Provisioning step failed", stepErr)
	p.recordFailure(ctx, step)
	log.SafeError(ctx, p.logger.With(log.String("step", string(step))), "provisioning step failed", err, p.production)

	return stepErr
}

func (p *Provisioner) createUser(ctx context.Context, plan Plan, result *Result) error {
	user := mongo.User{
		Username: plan.Username,
		Password: plan.Password,
		Roles:    []mongo.Role{{Name: plan.Role, Database: plan.Database}},
	}

	if err := p.admin.CreateUser(ctx, user); err != nil {
		return err
	}

	result.Username = plan.Username

	return nil
}

func (p *Provisioner) createCollection(ctx context.Context, plan Plan, result *Result) error {
	err := p.admin.CreateCollection(ctx, plan.Collection)

	switch {
	case err == nil:
	case errors.Is(err, mongo.ErrCollectionExists):
		p.logger.Log(ctx, log.LevelWarn, "collection already exists, continuing",
			log.String("collection", plan.Collection),
		)

		result.CollectionExisted = true
	default:
		return err
	}

	result.Collection = plan.Collection

	return nil
}

func (p *Provisioner) createIndex(ctx context.Context, plan Plan, result *Result) error {
	index := mongodriver.IndexModel{
		Keys:    bson.D{{Key: plan.IndexField, Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	names, err := p.admin.CreateIndexes(ctx, plan.Collection, index)
	if err != nil {
		return err
	}

	result.Indexes = names

	return nil
}

func (p *Provisioner) recordFailure(ctx context.Context, step Step) {
	if p.metrics == nil {
		return
	}

	counter, err := p.metrics.Counter(stepFailuresMetric)
	if err != nil {
		p.logger.Log(ctx, log.LevelWarn, "failed to create step failure counter", log.Err(err))
		return
	}

	err = counter.
		WithLabels(map[string]string{"step": constant.SanitizeMetricLabel(string(step))}).
		AddOne(ctx)
	if err != nil {
		p.logger.Log(ctx, log.LevelWarn, "failed to record step failure", log.Err(err))
	}
}

func (p *Provisioner) recordDuration(ctx context.Context, step Step, outcome string, elapsed time.Duration) {
	if p.metrics == nil {
		return
	}

	histogram, err := p.metrics.Histogram(stepDurationMetric)
	if err != nil {
		p.logger.Log(ctx, log.LevelWarn, "failed to create step duration histogram", log.Err(err))
		return
	}

	err = histogram.
		WithLabels(map[string]string{
			"step":    constant.SanitizeMetricLabel(string(step)),
			"outcome": outcome,
		}).
		Record(ctx, elapsed.Milliseconds())
	if err != nil {
		p.logger.Log(ctx, log.LevelWarn, "failed to record step duration", log.Err(err))
	}
}
