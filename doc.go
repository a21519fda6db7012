// Package idgen is a client for a remote identifier-generation service.
//
// A Client turns "count ids of name X in tenant T" into one batched POST and
// returns the generated ids or a ClientError:
//
//	cfg, _ := idgen.LoadConfig("idgen.yaml")
//	client, err := idgen.NewClient(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	resp, err := client.RequestIDs(ctx, requestInfo, "pb.amritsar", "chb.booking.id", "CHB-[cy:yyyy-MM-dd]-[SEQ_CHB]", 5)
//
// The transport underneath is a small Session built on net/http with
// functional options, RoundTripper middleware, per-request Stat logging and
// optional HTTP/3.
package idgen
