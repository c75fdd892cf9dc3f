// Package config provides configuration parsing for the vstore CLI.
//
// The configuration is stored in vstore.json in the working directory. Every
// field is optional.
//
// # Configuration File Structure
//
//	{
//	  "logLevel": "debug",
//	  "strictIds": true,
//	  "resultOverride": false,
//	  "metrics": {
//	    "namespace": "myapp"
//	  },
//	  "tracing": {
//	    "enabled": true,
//	    "tracerName": "myapp"
//	  },
//	  "logging": {
//	    "actions": true,
//	    "mutations": false
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.LoadOrDefault(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	r := store.NewRegistry(cfg.StoreOptions(cfg.Logger(os.Stderr))...)
package config
