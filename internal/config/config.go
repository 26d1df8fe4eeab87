package config

import (
	"os"

	"github.com/go-yaml/yaml"
)

type Config struct {
	Patient PatientService `yaml:"patientService"`
	Gateway Gateway        `yaml:"gateway"`
	Auth    AuthService    `yaml:"authService"`
	Trace   Trace          `yaml:"trace"`
}

type PatientService struct {
	Listen        string `yaml:"listen"`
	PostgresDsn   string `yaml:"postgresDsn"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisDB       int    `yaml:"redisDB"`
	MemcachedAddr string `yaml:"memcachedAddr"`
	BillingURL    string `yaml:"billingUrl"`
	EventChannel  string `yaml:"eventChannel"`
}

type Gateway struct {
	Listen     string `yaml:"listen"`
	AuthURL    string `yaml:"authUrl"`
	PatientURL string `yaml:"patientUrl"`
}

type AuthService struct {
	Listen      string `yaml:"listen"`
	PostgresDsn string `yaml:"postgresDsn"`
	JwtSecret   string `yaml:"jwtSecret"`
	TokenTTL    string `yaml:"tokenTTL"` // Go duration, defaults to 10h

	// bootstrap credential, created on startup when set
	AdminEmail    string `yaml:"adminEmail"`
	AdminPassword string `yaml:"adminPassword"`
}

type Trace struct {
	Enable   bool   `yaml:"enable"`
	Endpoint string `yaml:"endpoint"`
}

func Load(path string) (Config, error) {

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, err
	}

	if config.Patient.EventChannel == "" {
		config.Patient.EventChannel = "carebridge:events"
	}

	return config, nil
}
