package config

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	ld "github.com/launchdarkly/go-server-sdk/v7"

	"github.com/nconnect/society-backend/internal/utils"
)

type Config struct {
	OrganizationName string
	AppName          string
	Env              string
	AppPort          string
	AppUrl           string
	DBUrl            string
	RSAPublicKey     *rsa.PublicKey
	SendgridAPIKey   string
	TwilioAccountSID string
	TwilioAuthToken  string
	LDSDKKey         string
	SeedFile         string

	LDFlag_SendgridFromEmail      string
	LDFlag_SendgridSandboxMode    bool
	LDFlag_TwilioFromPhone        string
	LDFlag_NotificationsSendEmail bool
	LDFlag_NotificationsSendSMS   bool
	LDFlag_SeedDbWithDefaults     bool
	LDFlag_CORSHighSecurity       bool
}

const (
	OrganizationName    = utils.OrganizationName
	DefaultAppName      = "nconnect-backend"
	DefaultAppPort      = "8080"
	DefaultEnv          = "dev"
	LDConnectionTimeout = 5 * time.Second
	LDServerContextKind = "service"
)

// Secret names looked up in the environment and, when configured, in the
// Bitwarden project "<app>-<env>".
const (
	secretDBUrl            = "DATABASE_URL"
	secretJWTPublicKey     = "JWT_PUBLIC_KEY_PEM"
	secretSendgridAPIKey   = "SENDGRID_API_KEY"
	secretTwilioAccountSID = "TWILIO_ACCOUNT_SID"
	secretTwilioAuthToken  = "TWILIO_AUTH_TOKEN"
	secretLDSDKKey         = "LD_SDK_KEY"
)

// Flags is the set of feature flags with their offline defaults. Values
// from LaunchDarkly replace these when LD_SDK_KEY is configured.
type Flags struct {
	SendgridFromEmail      string
	SendgridSandboxMode    bool
	TwilioFromPhone        string
	NotificationsSendEmail bool
	NotificationsSendSMS   bool
	SeedDbWithDefaults     bool
	CORSHighSecurity       bool
}

func DefaultFlags() Flags {
	return Flags{
		SendgridFromEmail:      "no-reply@nconnect.local",
		NotificationsSendEmail: true,
		NotificationsSendSMS:   false,
		SeedDbWithDefaults:     true,
		CORSHighSecurity:       false,
	}
}

// LoadConfig reads .env (if present), the process environment, optional
// Bitwarden secrets and optional LaunchDarkly flags. Any missing required
// value is fatal.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		utils.Logger.WithError(err).Warn("Failed to read .env file")
	}

	cfg, err := Load(os.Getenv)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Invalid configuration")
	}
	return cfg
}

// Load builds a Config from getenv. Split out from LoadConfig so tests can
// supply their own environment.
func Load(getenv func(string) string) (*Config, error) {
	appName := envOr(getenv, "APP_NAME", DefaultAppName)
	env := envOr(getenv, "ENV", DefaultEnv)
	utils.Logger.Info("Loading config for app: ", appName)

	secrets := map[string]string{}
	for _, k := range []string{secretDBUrl, secretJWTPublicKey, secretSendgridAPIKey, secretTwilioAccountSID, secretTwilioAuthToken, secretLDSDKKey} {
		if v := strings.TrimSpace(getenv(k)); v != "" {
			secrets[k] = v
		}
	}

	if token := strings.TrimSpace(getenv("BWS_ACCESS_TOKEN")); token != "" {
		fetched, err := fetchBWSSecrets(token, getenv("BWS_ORGANIZATION_ID"), fmt.Sprintf("%s-%s", appName, env))
		if err != nil {
			return nil, err
		}
		for k, v := range fetched {
			secrets[k] = v
		}
	}

	dbURL := secrets[secretDBUrl]
	if dbURL == "" {
		return nil, errors.New("DATABASE_URL is missing")
	}

	pem := secrets[secretJWTPublicKey]
	if pem == "" {
		if path := getenv("JWT_PUBLIC_KEY_FILE"); path != "" {
			raw, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read JWT_PUBLIC_KEY_FILE: %w", err)
			}
			pem = string(raw)
		}
	}
	if pem == "" {
		return nil, errors.New("JWT_PUBLIC_KEY_PEM or JWT_PUBLIC_KEY_FILE is required")
	}
	publicKey, err := ParsePublicKey(pem)
	if err != nil {
		return nil, err
	}

	flags := DefaultFlags()
	if key := secrets[secretLDSDKKey]; key != "" {
		if flags, err = fetchFlags(key, appName, flags); err != nil {
			return nil, err
		}
	} else {
		utils.Logger.Info("LD_SDK_KEY not set; using default feature flags")
	}

	appURL := envOr(getenv, "APP_URL", "")
	utils.Logger.Debugf("App can be accessed at: %s", appURL)

	return &Config{
		OrganizationName: OrganizationName,
		AppName:          appName,
		Env:              env,
		AppPort:          envOr(getenv, "APP_PORT", DefaultAppPort),
		AppUrl:           appURL,
		DBUrl:            dbURL,
		RSAPublicKey:     publicKey,
		SendgridAPIKey:   secrets[secretSendgridAPIKey],
		TwilioAccountSID: secrets[secretTwilioAccountSID],
		TwilioAuthToken:  secrets[secretTwilioAuthToken],
		LDSDKKey:         secrets[secretLDSDKKey],
		SeedFile:         getenv("SEED_FILE"),

		LDFlag_SendgridFromEmail:      flags.SendgridFromEmail,
		LDFlag_SendgridSandboxMode:    flags.SendgridSandboxMode,
		LDFlag_TwilioFromPhone:        flags.TwilioFromPhone,
		LDFlag_NotificationsSendEmail: flags.NotificationsSendEmail,
		LDFlag_NotificationsSendSMS:   flags.NotificationsSendSMS,
		LDFlag_SeedDbWithDefaults:     flags.SeedDbWithDefaults,
		LDFlag_CORSHighSecurity:       flags.CORSHighSecurity,
	}, nil
}

// ParsePublicKey accepts a PEM block, also with literal "\n" sequences as
// found in single-line env files.
func ParsePublicKey(pem string) (*rsa.PublicKey, error) {
	pem = strings.ReplaceAll(pem, `\n`, "\n")
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pem))
	if err != nil {
		return nil, fmt.Errorf("parse RSA public key: %w", err)
	}
	return key, nil
}

// EmailDeliveryConfigured reports whether SendGrid can be used.
func (c *Config) EmailDeliveryConfigured() bool {
	return c.SendgridAPIKey != "" && c.LDFlag_SendgridFromEmail != ""
}

// SMSDeliveryConfigured reports whether Twilio can be used.
func (c *Config) SMSDeliveryConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.LDFlag_TwilioFromPhone != ""
}

func (c *Config) Close() {}

func envOr(getenv func(string) string, key, def string) string {
	if v := strings.TrimSpace(getenv(key)); v != "" {
		return v
	}
	return def
}

func fetchBWSSecrets(token, orgID, project string) (map[string]string, error) {
	client, err := utils.NewBWSSecretsClient(token, orgID)
	if err != nil {
		return nil, fmt.Errorf("initialize BWSSecretsClient: %w", err)
	}
	defer client.Close()

	secrets, err := client.GetBWSSecrets(project)
	if err != nil {
		return nil, fmt.Errorf("fetch secrets from BWS project %s: %w", project, err)
	}
	utils.Logger.Infof("Loaded %d secrets from BWS project %s", len(secrets), project)
	return secrets, nil
}

func fetchFlags(sdkKey, appName string, flags Flags) (Flags, error) {
	ldClient, err := ld.MakeClient(sdkKey, LDConnectionTimeout)
	if err != nil {
		return flags, fmt.Errorf("create LaunchDarkly client: %w", err)
	}
	defer ldClient.Close()
	if !ldClient.Initialized() {
		return flags, errors.New("LaunchDarkly client failed to initialize")
	}

	context := ldcontext.NewWithKind(ldcontext.Kind(LDServerContextKind), appName)

	boolFlags := []struct {
		key string
		dst *bool
	}{
		{"sendgrid_sandbox_mode", &flags.SendgridSandboxMode},
		{"notifications_send_email", &flags.NotificationsSendEmail},
		{"notifications_send_sms", &flags.NotificationsSendSMS},
		{"seed_db_with_defaults", &flags.SeedDbWithDefaults},
		{"cors_high_security", &flags.CORSHighSecurity},
	}
	for _, f := range boolFlags {
		v, err := ldClient.BoolVariation(f.key, context, *f.dst)
		if err != nil {
			return flags, fmt.Errorf("retrieve %s flag: %w", f.key, err)
		}
		utils.Logger.Debugf("%s flag: %t", f.key, v)
		*f.dst = v
	}

	stringFlags := []struct {
		key string
		dst *string
	}{
		{"sendgrid_from_email", &flags.SendgridFromEmail},
		{"twilio_from_phone", &flags.TwilioFromPhone},
	}
	for _, f := range stringFlags {
		v, err := ldClient.StringVariation(f.key, context, *f.dst)
		if err != nil {
			return flags, fmt.Errorf("retrieve %s flag: %w", f.key, err)
		}
		utils.Logger.Debugf("%s flag: %s", f.key, v)
		*f.dst = v
	}
	return flags, nil
}
