package config

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/go-ozzo/ozzo-validation/v4/is"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mitchellh/mapstructure"

	"github.com/spf13/viper"
)

const (
	defaultExtension = "yaml"
	defaultTagName   = "yaml"
)

var arnRegexp = regexp.MustCompile(`^arn:aws[a-z-]*:states:[a-z0-9-]+:\d{12}:stateMachine:[A-Za-z0-9_-]+$`)

type Binder interface {
	Bind(v *viper.Viper) error
}

type Loader interface {
	Load(name, path, envPrefix string, binder Binder) (Config, error)
}

type Config struct {
	Oauth      Oauth      `yaml:"oauth"`
	AWS        AWS        `yaml:"aws"`
	Search     Search     `yaml:"search"`
	Workflows  Workflows  `yaml:"workflows"`
	Approvals  Approvals  `yaml:"approvals"`
	Event      Event      `yaml:"event"`
	Slack      Slack      `yaml:"slack"`
	Server     Server     `yaml:"server"`
	Postgres   Postgres   `yaml:"postgres"`
	Cookies    Cookies    `yaml:"cookies"`
	Deployment Deployment `yaml:"deployment"`
	Janitor    Janitor    `yaml:"janitor"`

	LogLevel             string `yaml:"log_level"`
	CacheDurationSeconds int    `yaml:"cache_duration_seconds"`
	Debug                bool   `yaml:"debug"`
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Oauth, validation.Required),
		validation.Field(&c.AWS, validation.Required),
		validation.Field(&c.Search, validation.Required),
		validation.Field(&c.Workflows, validation.Required),
		validation.Field(&c.Approvals, validation.Required),
		validation.Field(&c.Event),
		validation.Field(&c.Slack),
		validation.Field(&c.Server, validation.Required),
		validation.Field(&c.Postgres, validation.Required),
		validation.Field(&c.Cookies, validation.Required),
		validation.Field(&c.Deployment, validation.Required),
		validation.Field(&c.Janitor),
		validation.Field(&c.LogLevel, validation.Required, validation.In("trace", "debug", "info", "warn", "error")),
		validation.Field(&c.CacheDurationSeconds, validation.Required),
	)
}

// Oauth configures the OpenID Connect provider backing the login gate,
// typically a Cognito user pool with the hosted UI enabled.
type Oauth struct {
	IssuerURL    string `yaml:"issuer_url"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
	// HostedUIURL is the base URL of the hosted UI, used for the signup and
	// logout endpoints that are not part of the discovery document.
	HostedUIURL string `yaml:"hosted_ui_url"`
	// LogoutRedirectURL is where the identity provider sends the browser
	// after signing out.
	LogoutRedirectURL string `yaml:"logout_redirect_url"`
	// DomainsClaim names the ID token claim holding the account ids of the
	// data domains the user owns.
	DomainsClaim string `yaml:"domains_claim"`
}

func (o Oauth) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.IssuerURL, validation.Required, is.URL),
		validation.Field(&o.ClientID, validation.Required),
		validation.Field(&o.RedirectURL, validation.Required, is.URL),
		validation.Field(&o.HostedUIURL, validation.Required, is.URL),
		validation.Field(&o.LogoutRedirectURL, validation.Required, is.URL),
		validation.Field(&o.DomainsClaim, validation.Required),
	)
}

type AWS struct {
	Region string `yaml:"region"`
	// EndpointOverride points all AWS clients at a local emulator.
	EndpointOverride string `yaml:"endpoint_override"`
}

func (a AWS) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Region, validation.Required),
		validation.Field(&a.EndpointOverride, is.URL),
	)
}

type Search struct {
	APIURL string `yaml:"api_url"`
}

func (s Search) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.APIURL, validation.Required, is.URL),
	)
}

type Workflows struct {
	AccessRequestStateMachineARN string `yaml:"access_request_state_machine_arn"`
	RegistrationStateMachineARN  string `yaml:"registration_state_machine_arn"`
	MaxResults                   int    `yaml:"max_results"`
}

func (w Workflows) Validate() error {
	return validation.ValidateStruct(&w,
		validation.Field(&w.AccessRequestStateMachineARN, validation.Required, validation.Match(arnRegexp)),
		validation.Field(&w.RegistrationStateMachineARN, validation.Required, validation.Match(arnRegexp)),
		validation.Field(&w.MaxResults, validation.Min(0), validation.Max(1000)),
	)
}

type Approvals struct {
	APIURL string `yaml:"api_url"`
}

func (a Approvals) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.APIURL, validation.Required, is.URL),
	)
}

// Event points at the workshop event service, it is optional and the help
// panel falls back to n/a without it.
type Event struct {
	APIURL string `yaml:"api_url"`
}

func (e Event) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.APIURL, is.URL),
	)
}

type Slack struct {
	Token   string `yaml:"token"`
	Channel string `yaml:"channel"`
}

func (s Slack) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Channel, validation.When(s.Token != "", validation.Required)),
	)
}

type Postgres struct {
	UserName      string                `yaml:"user_name"`
	Password      string                `yaml:"password"`
	Host          string                `yaml:"host"`
	Port          string                `yaml:"port"`
	DatabaseName  string                `yaml:"database_name"`
	SSLMode       string                `yaml:"ssl_mode"`
	Configuration PostgresConfiguration `yaml:"configuration"`
}

func (p Postgres) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.UserName, validation.Required),
		validation.Field(&p.Password, validation.Required),
		validation.Field(&p.Host, validation.Required, is.Host),
		validation.Field(&p.Port, validation.Required, is.Port),
		validation.Field(&p.DatabaseName, validation.Required),
		validation.Field(&p.SSLMode, validation.Required, validation.In("disable", "allow", "prefer", "require")),
	)
}

func (p Postgres) ConnectionString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		p.UserName,
		p.Password,
		p.Host,
		p.Port,
		p.DatabaseName,
		p.SSLMode,
	)
}

type PostgresConfiguration struct {
	MaxIdleConnections int `yaml:"max_idle_connections"`
	MaxOpenConnections int `yaml:"max_open_connections"`
}

type Server struct {
	Hostname string `yaml:"hostname"`
	Address  string `yaml:"address"`
	Port     string `yaml:"port"`
	// ConsoleURL is the external URL of the console, used in links sent
	// out of band.
	ConsoleURL string `yaml:"console_url"`
}

func (s Server) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Address, validation.Required, is.IP),
		validation.Field(&s.Hostname, validation.Required, is.Host),
		validation.Field(&s.Port, validation.Required, is.Port),
		validation.Field(&s.ConsoleURL, validation.Required, is.URL),
	)
}

// Deployment holds the values generated by the infrastructure deployment,
// normally merged in from the outputs file with LoadDeploymentOutputs.
type Deployment struct {
	OutputsFile       string `yaml:"outputs_file"`
	AccountID         string `yaml:"account_id"`
	RegistrationToken string `yaml:"registration_token"`
	WorkshopURL       string `yaml:"workshop_url"`
}

func (d Deployment) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.AccountID, validation.Required, is.Digit, validation.Length(12, 12)),
		validation.Field(&d.WorkshopURL, is.URL),
	)
}

// Janitor schedules the cleanup of expired sessions. An empty schedule
// runs every 15 minutes.
type Janitor struct {
	Schedule           string `yaml:"schedule"`
	SessionGracePeriod string `yaml:"session_grace_period"`
}

func (j Janitor) Validate() error {
	return validation.ValidateStruct(&j,
		validation.Field(&j.SessionGracePeriod, validation.By(isDuration)),
	)
}

func isDuration(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}

	_, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("must be a duration: %w", err)
	}

	return nil
}

type Cookies struct {
	Redirect   CookieSettings `yaml:"redirect"`
	OauthState CookieSettings `yaml:"oauth_state"`
	Session    CookieSettings `yaml:"session"`
}

func (c Cookies) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Redirect, validation.Required),
		validation.Field(&c.OauthState, validation.Required),
		validation.Field(&c.Session, validation.Required),
	)
}

type CookieSettings struct {
	Name     string `yaml:"name"`
	MaxAge   int    `yaml:"max_age"`
	Path     string `yaml:"path"`
	Domain   string `yaml:"domain"`
	SameSite string `yaml:"same_site"`
	Secure   bool   `yaml:"secure"`
	HttpOnly bool   `yaml:"http_only"`
}

func (c CookieSettings) GetSameSite() http.SameSite {
	switch c.SameSite {
	case "Strict":
		return http.SameSiteStrictMode
	case "Lax":
		return http.SameSiteLaxMode
	case "None":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteDefaultMode
	}
}

func (c CookieSettings) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.MaxAge, validation.Required),
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.Domain, validation.Required, is.Host),
		// Valid SameSite values:
		// - https://developer.mozilla.org/en-US/docs/Web/HTTP/Headers/Set-Cookie#samesitesamesite-value
		validation.Field(&c.SameSite, validation.Required, validation.In("Strict", "Lax", "None")),
	)
}

// DeploymentOutputs mirrors the JSON file written by the infrastructure
// deployment, keyed by stack name.
type DeploymentOutputs struct {
	InfraStack InfraStackOutputs `json:"InfraStack"`
}

type InfraStackOutputs struct {
	AccountID                    string `json:"AccountId"`
	SearchAPIURL                 string `json:"SearchApiUrl"`
	ApprovalsAPIURL              string `json:"ApprovalsApiUrl"`
	EventAPIURL                  string `json:"EventApiUrl"`
	RegistrationToken            string `json:"RegistrationToken"`
	AccessRequestStateMachineARN string `json:"AccessRequestStateMachineArn"`
	RegistrationStateMachineARN  string `json:"RegistrationStateMachineArn"`
}

// LoadDeploymentOutputs reads the outputs file referenced by
// Deployment.OutputsFile and fills in every value the outputs provide.
// Values from the outputs file take precedence over the YAML config, since
// they are regenerated on every deployment.
func (c *Config) LoadDeploymentOutputs() error {
	if c.Deployment.OutputsFile == "" {
		return nil
	}

	data, err := os.ReadFile(c.Deployment.OutputsFile)
	if err != nil {
		return fmt.Errorf("read deployment outputs: %w", err)
	}

	var outputs DeploymentOutputs

	err = json.Unmarshal(data, &outputs)
	if err != nil {
		return fmt.Errorf("unmarshal deployment outputs: %w", err)
	}

	o := outputs.InfraStack

	setIfPresent(&c.Deployment.AccountID, o.AccountID)
	setIfPresent(&c.Deployment.RegistrationToken, o.RegistrationToken)
	setIfPresent(&c.Search.APIURL, o.SearchAPIURL)
	setIfPresent(&c.Approvals.APIURL, o.ApprovalsAPIURL)
	setIfPresent(&c.Event.APIURL, o.EventAPIURL)
	setIfPresent(&c.Workflows.AccessRequestStateMachineARN, o.AccessRequestStateMachineARN)
	setIfPresent(&c.Workflows.RegistrationStateMachineARN, o.RegistrationStateMachineARN)

	return nil
}

func setIfPresent(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

type FileParts struct {
	FileName string
	Path     string
}

func ProcessConfigPath(configFile string) (FileParts, error) {
	absolutePath, err := filepath.Abs(configFile)
	if err != nil {
		return FileParts{}, fmt.Errorf("convert to absolute path: %w", err)
	}

	// Extract file name and extension
	fileName := filepath.Base(absolutePath)
	path := filepath.Dir(absolutePath)
	extension := filepath.Ext(fileName)

	if strings.ReplaceAll(strings.ToLower(extension), ".", "") != defaultExtension {
		return FileParts{}, fmt.Errorf("config file must have extension %s, got: %s", defaultExtension, extension)
	}

	return FileParts{
		FileName: fileName[:len(fileName)-len(extension)],
		Path:     path,
	}, nil
}

func NewFileSystemLoader() *FileSystemLoader {
	return &FileSystemLoader{}
}

type FileSystemLoader struct{}

func (fs *FileSystemLoader) Load(name, path, envPrefix string, b Binder) (Config, error) {
	v := viper.New()

	v.AddConfigPath(path)
	v.SetConfigName(name)
	v.SetConfigType(defaultExtension)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // So that env vars are translated properly
	v.AutomaticEnv()

	if b != nil {
		err := b.Bind(v)
		if err != nil {
			return Config{}, err
		}
	}

	v.SetEnvPrefix(envPrefix)

	err := v.ReadInConfig()
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var config Config

	err = v.Unmarshal(&config, func(cfg *mapstructure.DecoderConfig) {
		cfg.TagName = defaultTagName // We use yaml tags in the config structs so we can marshal to yaml
	})
	if err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	return config, nil
}

type EnvBinder struct {
	binders map[string]string
}

func (e *EnvBinder) Bind(v *viper.Viper) error {
	for envVar, key := range e.binders {
		err := v.BindEnv(key, envVar)
		if err != nil {
			return fmt.Errorf("bind env var %s to key %s: %w", envVar, key, err)
		}
	}

	return nil
}

func NewEnvBinder(binders map[string]string) *EnvBinder {
	return &EnvBinder{
		binders: binders,
	}
}

func NewDefaultEnvBinder() *EnvBinder {
	return NewEnvBinder(map[string]string{
		"COGNITO_CLIENT_ID":     "oauth.client_id",
		"COGNITO_CLIENT_SECRET": "oauth.client_secret",
		"AWS_REGION":            "aws.region",
		"PGPASSWORD":            "postgres.password",
		"SLACK_TOKEN":           "slack.token",
		"REGISTRATION_TOKEN":    "deployment.registration_token",
	})
}
