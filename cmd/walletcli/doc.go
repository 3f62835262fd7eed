// Command walletcli registers, recovers and inspects wallets against a
// running wallet API server.
//
// Identity proofs are passed as repeatable provider:value flags:
//
//	walletcli register \
//	    --id-token google:$ID_TOKEN \
//	    --access-token github:$GH_TOKEN \
//	    --assertion passkey:assertion.json \
//	    --salt my-wallet --threshold 2
//
//	walletcli recover --address 0xabc... --id-token google:$ID_TOKEN --access-token github:$GH_TOKEN
//
//	walletcli show --address 0xabc...
package main
