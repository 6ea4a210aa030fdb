package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and a
// string-friendly Duration type, so config files can write durations as
// "30s" or "1h".
type StructuredJSONConfig struct {
	App struct {
		TokenVerifyKey string `json:"token_verify_key"`
		TokenIssuer    string `json:"token_issuer"`
		Version        string `json:"version"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			Path string `json:"path"`
		} `json:"db,omitempty"`

		Mirror struct {
			Dir string `json:"dir"`
		} `json:"mirror,omitempty"`
	} `json:"storage,omitempty"`

	Remote struct {
		DSN string `json:"dsn"`

		S3 struct {
			Region       string   `json:"region"`
			Bucket       string   `json:"bucket"`
			Endpoint     string   `json:"endpoint"`
			AccessKey    string   `json:"access_key"`
			SecretKey    string   `json:"secret_key"`
			SignedURLTTL Duration `json:"signed_url_ttl"`
		} `json:"s3,omitempty"`
	} `json:"remote,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Photo struct {
		MaxWidth  int `json:"max_width"`
		MaxHeight int `json:"max_height"`
		Quality   int `json:"quality"`
	} `json:"photo,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			TokenVerifyKey: jsonCfg.App.TokenVerifyKey,
			TokenIssuer:    jsonCfg.App.TokenIssuer,
			Version:        jsonCfg.App.Version,
		},
		Storage: Storage{
			DB: ClientDB{
				Path: jsonCfg.Storage.DB.Path,
			},
			Mirror: Mirror{
				Dir: jsonCfg.Storage.Mirror.Dir,
			},
		},
		Remote: Remote{
			DSN: jsonCfg.Remote.DSN,
			S3: S3{
				Region:       jsonCfg.Remote.S3.Region,
				Bucket:       jsonCfg.Remote.S3.Bucket,
				Endpoint:     jsonCfg.Remote.S3.Endpoint,
				AccessKey:    jsonCfg.Remote.S3.AccessKey,
				SecretKey:    jsonCfg.Remote.S3.SecretKey,
				SignedURLTTL: time.Duration(jsonCfg.Remote.S3.SignedURLTTL),
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Photo: Photo{
			MaxWidth:  jsonCfg.Photo.MaxWidth,
			MaxHeight: jsonCfg.Photo.MaxHeight,
			Quality:   jsonCfg.Photo.Quality,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
