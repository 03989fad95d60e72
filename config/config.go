package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"

	"github.com/skillcart/skillcart/pkg/common"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
	SiteURL  string `yaml:"site_url" json:"site_url"`
	// OrderRetentionDays is how long pending orders may sit before the
	// nightly job cancels them.
	OrderRetentionDays int `yaml:"order_retention_days" json:"order_retention_days"`
}

type WebConfig struct {
	Host      string `yaml:"host" json:"host"`
	Port      int    `yaml:"port" json:"port"`
	JwtSecret string `yaml:"jwt_secret" json:"jwt_secret"`
	// Admin credentials for the management API.
	AdminUsername string `yaml:"admin_username" json:"admin_username"`
	AdminPassword string `yaml:"admin_password" json:"admin_password"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type SmtpConfig struct {
	Host         string `yaml:"host" json:"host"`
	Port         int    `yaml:"port" json:"port"`
	Username     string `yaml:"username" json:"username"`
	Password     string `yaml:"password" json:"password"`
	FromEmail    string `yaml:"from_email" json:"from_email"`
	SupportEmail string `yaml:"support_email" json:"support_email"`
}

type LoggerConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig    `yaml:"system" json:"system"`
	Web      WebConfig    `yaml:"web" json:"web"`
	Database DBConfig     `yaml:"database" json:"database"`
	Smtp     SmtpConfig   `yaml:"smtp" json:"smtp"`
	Logger   LoggerConfig `yaml:"logger" json:"logger"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:              "skillcart",
		Location:           "Asia/Kolkata",
		Workdir:            "/var/skillcart",
		Debug:              true,
		SiteURL:            "http://localhost:1980",
		OrderRetentionDays: 30,
	},
	Web: WebConfig{
		Host:          "0.0.0.0",
		Port:          1980,
		JwtSecret:     "9b6de5cc-0731-1203-xxtt-0f568ac9da37",
		AdminUsername: "admin",
		AdminPassword: "skillcart",
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "skillcart",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  100,
		IdleConn: 10,
	},
	Smtp: SmtpConfig{
		Host:         "localhost",
		Port:         25,
		FromEmail:    "noreply@skillcart.local",
		SupportEmail: "support@skillcart.local",
	},
	Logger: LoggerConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/skillcart/skillcart.log",
	},
}

func (c *AppConfig) GetLogDir() string {
	return filepath.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetDataDir() string {
	return filepath.Join(c.System.Workdir, "data")
}

func (c *AppConfig) GetUploadDir() string {
	return filepath.Join(c.System.Workdir, "uploads")
}

func (c *AppConfig) initDirs() {
	_ = os.MkdirAll(c.System.Workdir, 0o755)
	_ = os.MkdirAll(c.GetLogDir(), 0o755)
	_ = os.MkdirAll(c.GetDataDir(), 0o755)
	_ = os.MkdirAll(filepath.Join(c.GetUploadDir(), "screenshots"), 0o755)
	_ = os.MkdirAll(filepath.Join(c.GetUploadDir(), "products"), 0o755)
}

func setEnvValue(name string, val *string) {
	evalue := os.Getenv(name)
	if evalue != "" {
		*val = evalue
	}
}

func setEnvIntValue(name string, val *int) {
	evalue := os.Getenv(name)
	if evalue != "" {
		*val = cast.ToInt(evalue)
	}
}

func setEnvBoolValue(name string, val *bool) {
	evalue := os.Getenv(name)
	if evalue != "" {
		*val = evalue == "true" || evalue == "1" || evalue == "on"
	}
}

// LoadConfig reads the YAML configuration file and applies SKILLCART_*
// environment overrides. A missing file yields the defaults.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	if common.FileExists(cfile) {
		if data, err := os.ReadFile(cfile); err == nil {
			// File values overlay the defaults section by section.
			if err := yaml.Unmarshal(data, cfg); err != nil {
				fmt.Fprintf(os.Stderr, "config parse error: %v\n", err)
			}
		}
	}

	setEnvValue("SKILLCART_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvValue("SKILLCART_SITE_URL", &cfg.System.SiteURL)
	setEnvBoolValue("SKILLCART_SYSTEM_DEBUG", &cfg.System.Debug)
	setEnvIntValue("SKILLCART_ORDER_RETENTION_DAYS", &cfg.System.OrderRetentionDays)

	setEnvValue("SKILLCART_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("SKILLCART_WEB_PORT", &cfg.Web.Port)
	setEnvValue("SKILLCART_WEB_JWT_SECRET", &cfg.Web.JwtSecret)
	setEnvValue("SKILLCART_WEB_ADMIN_USERNAME", &cfg.Web.AdminUsername)
	setEnvValue("SKILLCART_WEB_ADMIN_PASSWORD", &cfg.Web.AdminPassword)

	setEnvValue("SKILLCART_DB_TYPE", &cfg.Database.Type)
	setEnvValue("SKILLCART_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("SKILLCART_DB_PORT", &cfg.Database.Port)
	setEnvValue("SKILLCART_DB_NAME", &cfg.Database.Name)
	setEnvValue("SKILLCART_DB_USER", &cfg.Database.User)
	setEnvValue("SKILLCART_DB_PWD", &cfg.Database.Passwd)

	setEnvValue("SKILLCART_SMTP_HOST", &cfg.Smtp.Host)
	setEnvIntValue("SKILLCART_SMTP_PORT", &cfg.Smtp.Port)
	setEnvValue("SKILLCART_SMTP_USERNAME", &cfg.Smtp.Username)
	setEnvValue("SKILLCART_SMTP_PASSWORD", &cfg.Smtp.Password)
	setEnvValue("SKILLCART_SMTP_FROM", &cfg.Smtp.FromEmail)
	setEnvValue("SKILLCART_SMTP_SUPPORT", &cfg.Smtp.SupportEmail)

	setEnvValue("SKILLCART_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("SKILLCART_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	setEnvValue("SKILLCART_LOGGER_FILENAME", &cfg.Logger.Filename)

	cfg.initDirs()
	return cfg
}
