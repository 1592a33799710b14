/*
Package vcd_client provides a small typed interface to the snapshot lifecycle
of the vCloud Director REST API (version 5.1).

It wraps raw HTTP operations in a structured API scoped to a single snapshot
per VM or vApp: query the current snapshot, create one (replacing any
existing snapshot), remove it, or revert the entity to it. The remote API
keeps at most one snapshot per entity and does not support naming snapshots.

The main entry point is the VCDRest client, which is initialized using a
VCDConfig configuration struct. The configuration allows customization of
connection parameters, credentials (username/password login or a pre-issued
session token), SSL behavior, request timeouts, request/response hooks, and
the confirmation policy applied to destructive operations.

Example:

	config := &core.VCDConfig{
		Host:     "vcd.example.com",
		Org:      "myorg",
		Username: "admin",
		Password: "secret",
		Confirm:  core.ConfirmAutoApprove,
	}
	rest, err := vcd_client.NewVCDRest(config)
	if err != nil {
		log.Fatal(err)
	}
	vm, err := rest.Vms.GetByName("db1")
	if err != nil {
		log.Fatal(err)
	}
	record, err := rest.Snapshots.Create(vm, vcd_client.CreateSnapshotOptions{})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(record.Record().PrettyTable())

Destructive operations (RemoveAll, Revert) consult the confirmation policy
before any request is sent; a declined operation performs no I/O and is not
an error.
*/
package vcd_client
