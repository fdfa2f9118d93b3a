// Package config loads reconcile.json, the optional configuration file of
// the reconcile command.
//
// # Configuration File Structure
//
//	{
//	  "log": {
//	    "level": "info"
//	  },
//	  "output": {
//	    "format": "text"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "reconcile"
//	  }
//	}
//
// Every field is optional. A missing file is the same as an empty one.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Format:", cfg.Output.Format)
package config
