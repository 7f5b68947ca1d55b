package pending

import "github.com/tokenlayer/lib-txpipeline/txpipeline/protocol"

func protocolID(id uint32) protocol.PropertyID {
	return protocol.PropertyID(id)
}
