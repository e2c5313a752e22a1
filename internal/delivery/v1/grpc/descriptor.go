package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName: полное имя gRPC-сервиса. Запросы и ответы передаются как google.protobuf.Struct.
const ServiceName = "inventory.v1.ProductService"

const (
	MethodListProducts   = "ListProducts"
	MethodGetProduct     = "GetProduct"
	MethodCreateProduct  = "CreateProduct"
	MethodUpdateProduct  = "UpdateProduct"
	MethodArchiveProduct = "ArchiveProduct"
	MethodRestoreProduct = "RestoreProduct"
	MethodDeleteProduct  = "DeleteProduct"
	MethodExportCatalog  = "ExportCatalog"
	MethodListCategories = "ListCategories"
)

// ProductServiceServer: серверная часть inventory.v1.ProductService.
type ProductServiceServer interface {
	ListProducts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	CreateProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	UpdateProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ArchiveProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	RestoreProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	DeleteProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ExportCatalog(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListCategories(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(srv ProductServiceServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

// ProductServiceDesc описывает сервис для grpc.Server.RegisterService.
var ProductServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ProductServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodListProducts, ProductServiceServer.ListProducts),
		unary(MethodGetProduct, ProductServiceServer.GetProduct),
		unary(MethodCreateProduct, ProductServiceServer.CreateProduct),
		unary(MethodUpdateProduct, ProductServiceServer.UpdateProduct),
		unary(MethodArchiveProduct, ProductServiceServer.ArchiveProduct),
		unary(MethodRestoreProduct, ProductServiceServer.RestoreProduct),
		unary(MethodDeleteProduct, ProductServiceServer.DeleteProduct),
		unary(MethodExportCatalog, ProductServiceServer.ExportCatalog),
		unary(MethodListCategories, ProductServiceServer.ListCategories),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "inventory/v1/product_service.proto",
}

func RegisterProductServiceServer(s grpc.ServiceRegistrar, srv ProductServiceServer) {
	s.RegisterService(&ProductServiceDesc, srv)
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func unary(method string, call unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}

			if interceptor == nil {
				return call(srv.(ProductServiceServer), ctx, in)
			}

			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod(method),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(ProductServiceServer), ctx, req.(*structpb.Struct))
			}

			return interceptor(ctx, in, info, handler)
		},
	}
}
