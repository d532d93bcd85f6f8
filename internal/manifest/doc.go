// Package manifest describes an application's entry points in YAML.
//
// A manifest declares the layers of an application and, for every entry
// point, the slots it contributes and the slots it depends on. It carries no
// behavior: EntryPoints turns the descriptors into inert entry points whose
// factories return Placeholder values. This is enough to check a dependency
// graph and to plan start and stop order without running anything.
//
// # Format
//
//	layers: [data, logic, ui]
//	entryPoints:
//	  - name: database
//	    layer: data
//	    contributes:
//	      - name: db.conn
//	        layer: data
//	  - name: plugins
//	    layer: logic
//	    contributes:
//	      - { name: plugin, multi: true, layer: logic }
//	  - name: api
//	    layer: logic
//	    dependsOn: [db.conn, plugin]
//
// A slot reference is either a mapping with name, multi and layer, or a plain
// string. Plain strings inherit the key of the slot contributed under that
// name, so a dependency does not need to repeat the layer and multi flag.
//
// # Validation
//
// Validate checks raw bytes against the embedded JSON schema and reports
// every schema violation. Lint checks what the schema cannot express, such
// as unique entry point names. Graph level problems (cycles, layering) are
// found by the orchestrator when the entry points are registered.
package manifest
